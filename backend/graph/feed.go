package graph

import (
	"bytes"
	"encoding/json"
	"strings"

	"linkboard/backend/common/i18n"
	"linkboard/backend/model"
)

const feedIDPrefix = "main-feed:"

// Feed is one page of links plus the total number of links matching the filter.
type Feed struct {
	ID    string        `json:"id"`
	Count int64         `json:"count"`
	Links []*model.Link `json:"links"`
}

// orderByItem is one LinkOrderByInput value with its fields in declaration
// order, so it serializes the same way on every request.
type orderByItem struct {
	Description *string `json:"description,omitempty"`
	URL         *string `json:"url,omitempty"`
	CreatedAt   *string `json:"createdAt,omitempty"`
	ID          *string `json:"id,omitempty"`
}

func (o orderByItem) clauses() []model.OrderClause {
	fields := []struct {
		name string
		dir  *string
	}{
		{"description", o.Description},
		{"url", o.URL},
		{"createdAt", o.CreatedAt},
		{"id", o.ID},
	}
	var out []model.OrderClause
	for _, f := range fields {
		if f.dir != nil {
			out = append(out, model.OrderClause{Field: f.name, Desc: *f.dir == sortDesc})
		}
	}
	return out
}

// feedArgs mirrors the feed field arguments in declaration order. Nil means
// the argument was not supplied.
type feedArgs struct {
	Filter  *string        `json:"filter,omitempty"`
	Take    *int           `json:"take,omitempty"`
	Skip    *int           `json:"skip,omitempty"`
	OrderBy *[]orderByItem `json:"orderBy,omitempty"`
}

func sortArg(m map[string]interface{}, field string) *string {
	if v, ok := m[field].(string); ok {
		return &v
	}
	return nil
}

func parseFeedArgs(args map[string]interface{}) feedArgs {
	var fa feedArgs
	if v, ok := args["filter"].(string); ok {
		fa.Filter = &v
	}
	if v, ok := args["take"].(int); ok {
		fa.Take = &v
	}
	if v, ok := args["skip"].(int); ok {
		fa.Skip = &v
	}
	if list, ok := args["orderBy"].([]interface{}); ok {
		orderBy := make([]orderByItem, 0, len(list))
		for _, item := range list {
			m, ok := item.(map[string]interface{})
			if !ok {
				continue
			}
			orderBy = append(orderBy, orderByItem{
				Description: sortArg(m, "description"),
				URL:         sortArg(m, "url"),
				CreatedAt:   sortArg(m, "createdAt"),
				ID:          sortArg(m, "id"),
			})
		}
		fa.OrderBy = &orderBy
	}
	return fa
}

// feedID identifies a feed by the exact arguments it was requested with,
// e.g. main-feed:{"filter":"go","take":10}.
func feedID(fa feedArgs) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(fa); err != nil {
		return "", err
	}
	return feedIDPrefix + strings.TrimSuffix(buf.String(), "\n"), nil
}

// linkQuery turns feed arguments into a page request. A negative take counts
// back from the end of the ordering; a negative skip is rejected.
func linkQuery(fa feedArgs, lang string) (model.LinkQuery, error) {
	var query model.LinkQuery
	if fa.Filter != nil {
		query.Filter = *fa.Filter
	}
	if fa.Take != nil {
		query.Take = fa.Take
	}
	if fa.Skip != nil {
		if *fa.Skip < 0 {
			return query, i18n.InvalidParamError(lang, "skip")
		}
		query.Skip = fa.Skip
	}
	if fa.OrderBy != nil {
		for _, item := range *fa.OrderBy {
			query.OrderBy = append(query.OrderBy, item.clauses()...)
		}
	}
	return query, nil
}
