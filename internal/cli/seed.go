package cli

import (
	"context"
	"fmt"
	"time"

	"kikisite/internal/repositories"
	"kikisite/internal/services"

	"github.com/spf13/cobra"
)

func NewSeedCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert the sample articles into an empty articles table",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime()
			if err != nil {
				return err
			}
			defer rt.close()

			count, err := repositories.NewGORMArticleRepository(rt.db).Count(cmd.Context())
			if err != nil {
				return err
			}
			if count > 0 {
				rt.log.Info().Int64("articles", count).Msg("Articles table is not empty, skipping seed")
				return nil
			}
			return seedArticles(cmd.Context(), rt.articleService(nil), time.Now().UTC())
		},
	}
}

// seedArticles stores sampleArticles, oldest first, with created_at one day
// apart ending at now.
func seedArticles(ctx context.Context, articles *services.ArticleService, now time.Time) error {
	for i, input := range sampleArticles {
		input.CreatedAt = now.Add(-time.Duration(len(sampleArticles)-1-i) * 24 * time.Hour)
		if _, err := articles.Create(ctx, input); err != nil {
			return fmt.Errorf("failed to seed article %s: %w", input.Slug, err)
		}
	}
	return nil
}

var sampleArticles = []services.ArticleInput{
	{
		Slug:     "advanced-surface-treatment-techniques",
		Title:    "不锈钢表面处理工艺的技术突破与应用",
		Excerpt:  "深入解析最新的不锈钢表面处理技术，包括激光蚀刻、PVD涂层、纳米处理等前沿工艺的原理、优势和实际应用案例。",
		Content:  "## 技术概述\n\n不锈钢表面处理技术是决定产品最终品质和应用价值的关键环节。经过多年的技术积累和创新，我们在表面处理领域取得了重要突破，形成了完整的技术体系。\n\n## 激光蚀刻技术\n\n### 技术原理\n\n激光蚀刻技术利用高能激光束在不锈钢表面进行精密加工，通过控制激光功率、速度和脉冲频率，可以实现各种复杂图案和纹理的制作。",
		Date:     "2024年11月28日",
		Category: "技术分析",
		ReadTime: "8分钟",
		Views:    "2.8K",
		Comments: "89",
		Tags:     []string{"表面处理", "激光技术", "PVD涂层", "工艺创新"},
	},
	{
		Slug:     "stainless-steel-industry-trends-2024",
		Title:    "2024年不锈钢行业发展趋势与机遇",
		Excerpt:  "深度分析2024年不锈钢行业的发展趋势，从市场需求、技术创新到政策导向，为行业从业者提供前瞻性洞察。",
		Content:  "## 引言\n\n2024年，不锈钢行业正站在一个重要的转折点。随着全球经济复苏、绿色发展理念深入人心，以及新兴应用领域的不断涌现，不锈钢行业面临着前所未有的发展机遇与挑战。\n\n## 市场需求分析\n\n### 建筑装饰市场持续增长\n\n建筑装饰领域仍是不锈钢消费的主力军：\n\n- **高端住宅**：豪华住宅对不锈钢装饰板材需求激增\n- **商业空间**：购物中心、酒店对镜面、彩色不锈钢需求旺盛\n- **公共建筑**：地铁站、机场等基础设施建设带动需求",
		Date:     "2024年12月15日",
		Category: "行业洞察",
		ReadTime: "10分钟",
		Views:    "3.2K",
		Comments: "156",
		Tags:     []string{"行业趋势", "市场分析", "技术创新", "发展机遇"},
	},
	{
		Slug:     "stainless-steel-decorative-board-industry-insights-2025",
		Title:    "不锈钢装饰板行业深度洞察：技术创新驱动下的市场变革与发展趋势",
		Excerpt:  "全面分析2025年不锈钢装饰板行业发展态势，深入解读技术创新、市场驱动因素、竞争格局变化及未来5年投资机遇，为行业从业者提供专业洞察。",
		Content:  "# 不锈钢装饰板行业深度洞察：技术创新驱动下的市场变革与发展趋势\n\n## 一、引言\n\n站在2025年的时间节点，回望过去、展望未来，不锈钢装饰板行业正处在一个充满机遇与挑战并存的关键时期。不锈钢装饰板已成为现代建筑不可或缺的重要组成部分。\n\n面对市场需求多元化、技术迭代加速、国际竞争加剧，行业从业者亟需更深入的市场洞察和前瞻性思考。",
		Date:     "2025年1月1日",
		Category: "行业深度分析",
		ReadTime: "15分钟",
		Views:    "1.2K",
		Comments: "45",
		Tags:     []string{"行业洞察", "技术创新", "市场分析", "发展趋势", "投资机会"},
		Featured: true,
	},
}
