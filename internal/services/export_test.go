package services

import "time"

// SetArticleClock replaces the clock used for article defaults.
func SetArticleClock(s *ArticleService, now func() time.Time) {
	s.now = now
}
