package mongo

import (
	"alcyxob/coaching-app/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
)

// sortSpec translates Page sort parameters into a mongo sort document,
// falling back to the given default field descending.
func sortSpec(page repository.Page, defaultField string) bson.D {
	field := page.SortBy
	if field == "" {
		return bson.D{{Key: defaultField, Value: -1}}
	}
	dir := 1
	if page.SortDir == "desc" {
		dir = -1
	}
	return bson.D{{Key: field, Value: dir}}
}
