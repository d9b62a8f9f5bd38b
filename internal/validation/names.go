package validation

import (
	"reflect"
	"strings"
)

// jsonName reports fields by their JSON name so messages match the request body.
func jsonName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" || name == "" {
		return fld.Name
	}
	return name
}
