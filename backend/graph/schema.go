package graph

import (
	"github.com/graphql-go/graphql"
)

const (
	sortAsc  = "asc"
	sortDesc = "desc"
)

// NewSchema builds the executable schema with r answering every field.
func NewSchema(r *Resolver) (graphql.Schema, error) {
	sortEnum := graphql.NewEnum(graphql.EnumConfig{
		Name: "Sort",
		Values: graphql.EnumValueConfigMap{
			sortAsc:  &graphql.EnumValueConfig{Value: sortAsc},
			sortDesc: &graphql.EnumValueConfig{Value: sortDesc},
		},
	})

	linkOrderByInput := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "LinkOrderByInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"description": &graphql.InputObjectFieldConfig{Type: sortEnum},
			"url":         &graphql.InputObjectFieldConfig{Type: sortEnum},
			"createdAt":   &graphql.InputObjectFieldConfig{Type: sortEnum},
			"id":          &graphql.InputObjectFieldConfig{Type: sortEnum},
		},
	})

	var linkType, userType *graphql.Object

	userType = graphql.NewObject(graphql.ObjectConfig{
		Name: "User",
		Fields: graphql.FieldsThunk(func() graphql.Fields {
			return graphql.Fields{
				"id":    &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
				"name":  &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
				"email": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
				"links": &graphql.Field{
					Type:    graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(linkType))),
					Resolve: r.userLinks,
				},
			}
		}),
	})

	linkType = graphql.NewObject(graphql.ObjectConfig{
		Name: "Link",
		Fields: graphql.FieldsThunk(func() graphql.Fields {
			return graphql.Fields{
				"id":          &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
				"description": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
				"url":         &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
				"createdAt":   &graphql.Field{Type: graphql.NewNonNull(graphql.DateTime)},
				"postedBy": &graphql.Field{
					Type:    userType,
					Resolve: r.linkPostedBy,
				},
				"voters": &graphql.Field{
					Type:    graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(userType))),
					Resolve: r.linkVoters,
				},
			}
		}),
	})

	feedType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Feed",
		Fields: graphql.Fields{
			"id":    &graphql.Field{Type: graphql.ID},
			"count": &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
			"links": &graphql.Field{Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(linkType)))},
		},
	})

	voteType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Vote",
		Fields: graphql.Fields{
			"link": &graphql.Field{Type: graphql.NewNonNull(linkType)},
			"user": &graphql.Field{Type: graphql.NewNonNull(userType)},
		},
	})

	linkList := graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(linkType)))

	query := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"feed": &graphql.Field{
				Type: graphql.NewNonNull(feedType),
				Args: graphql.FieldConfigArgument{
					"filter":  &graphql.ArgumentConfig{Type: graphql.String},
					"take":    &graphql.ArgumentConfig{Type: graphql.Int},
					"skip":    &graphql.ArgumentConfig{Type: graphql.Int},
					"orderBy": &graphql.ArgumentConfig{Type: graphql.NewList(graphql.NewNonNull(linkOrderByInput))},
				},
				Resolve: r.feed,
			},
			"getLinks": &graphql.Field{
				Type: linkList,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
				},
				Resolve: r.getLinks,
			},
		},
	})

	mutation := graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			"postLink": &graphql.Field{
				Type: linkList,
				Args: graphql.FieldConfigArgument{
					"description": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"url":         &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: r.postLink,
			},
			"deleteLink": &graphql.Field{
				Type: linkList,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
				},
				Resolve: r.deleteLink,
			},
			"vote": &graphql.Field{
				Type: voteType,
				Args: graphql.FieldConfigArgument{
					"linkId": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
				},
				Resolve: r.vote,
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query:    query,
		Mutation: mutation,
	})
}
