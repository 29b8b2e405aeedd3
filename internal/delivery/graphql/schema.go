package graphql

import (
	"net/http"

	graphql "github.com/graph-gophers/graphql-go"
	"github.com/graph-gophers/graphql-go/relay"

	"github.com/kervela/product_catalog/internal/pkg/logger"
	"github.com/kervela/product_catalog/internal/usecase/product"
)

// Schema is the GraphQL schema exposed at /graphql
const Schema = `
	schema {
		query: Query
	}

	type Query {
		getProduct(id: Int!): Product
	}

	type Product {
		id: Int!
		name: String!
		code: String!
		stockQuantity: Int!
		createdAt: String!
		updatedAt: String!
	}
`

// NewHandler parses the schema and returns an HTTP handler serving it
func NewHandler(service *product.Service, log *logger.Logger) http.Handler {
	schema := graphql.MustParseSchema(Schema, NewResolver(service, log))
	return &relay.Handler{Schema: schema}
}
