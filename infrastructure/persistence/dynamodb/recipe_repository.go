package dynamodb

import (
	"context"
	"fmt"
	"time"

	"tastebase-backend/application/ports"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"
)

// RecipeRepository implements ports.RecipeReader using DynamoDB. The
// revalidation service only ever reads through it; writes happen in the CMS.
type RecipeRepository struct {
	client    *dynamodb.Client
	tableName string
	logger    *zap.Logger
}

// NewRecipeRepository creates a new RecipeRepository
func NewRecipeRepository(client *dynamodb.Client, tableName string, logger *zap.Logger) ports.RecipeReader {
	return &RecipeRepository{
		client:    client,
		tableName: tableName,
		logger:    logger,
	}
}

// recipeItem represents the DynamoDB item structure for a recipe
type recipeItem struct {
	PK         string `dynamodbav:"PK"`
	SK         string `dynamodbav:"SK"`
	EntityType string `dynamodbav:"EntityType"`
	Slug       string `dynamodbav:"Slug"`
	Title      string `dynamodbav:"Title"`
	Category   string `dynamodbav:"Category"`
	UpdatedAt  string `dynamodbav:"UpdatedAt"`
}

// categoryItem represents the DynamoDB item structure for a category
type categoryItem struct {
	PK         string `dynamodbav:"PK"`
	SK         string `dynamodbav:"SK"`
	EntityType string `dynamodbav:"EntityType"`
	Slug       string `dynamodbav:"Slug"`
	Name       string `dynamodbav:"Name"`
}

// GetRecipeBySlug returns the recipe with the given slug, or nil if absent.
func (r *RecipeRepository) GetRecipeBySlug(ctx context.Context, slug string) (*ports.Recipe, error) {
	input := &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: fmt.Sprintf("RECIPE#%s", slug)},
			"SK": &types.AttributeValueMemberS{Value: "METADATA"},
		},
	}

	output, err := r.client.GetItem(ctx, input)
	if err != nil {
		r.logger.Error("Failed to get recipe from DynamoDB",
			zap.Error(err),
			zap.String("slug", slug),
		)
		return nil, fmt.Errorf("failed to get recipe %q: %w", slug, err)
	}

	if output.Item == nil {
		return nil, nil
	}

	var item recipeItem
	if err := attributevalue.UnmarshalMap(output.Item, &item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal recipe %q: %w", slug, err)
	}

	recipe := &ports.Recipe{
		Slug:     item.Slug,
		Title:    item.Title,
		Category: item.Category,
	}
	if item.UpdatedAt != "" {
		if updatedAt, err := time.Parse(time.RFC3339, item.UpdatedAt); err == nil {
			recipe.UpdatedAt = updatedAt
		}
	}

	return recipe, nil
}

// ListCategorySlugs returns the slugs of all category items, following
// pagination until the scan is exhausted.
func (r *RecipeRepository) ListCategorySlugs(ctx context.Context) ([]string, error) {
	filter := expression.Name("EntityType").Equal(expression.Value("CATEGORY"))
	proj := expression.NamesList(expression.Name("Slug"))

	expr, err := expression.NewBuilder().
		WithFilter(filter).
		WithProjection(proj).
		Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build category scan expression: %w", err)
	}

	var slugs []string
	var lastKey map[string]types.AttributeValue

	for {
		input := &dynamodb.ScanInput{
			TableName:                 aws.String(r.tableName),
			FilterExpression:          expr.Filter(),
			ProjectionExpression:      expr.Projection(),
			ExpressionAttributeNames:  expr.Names(),
			ExpressionAttributeValues: expr.Values(),
			ExclusiveStartKey:         lastKey,
		}

		output, err := r.client.Scan(ctx, input)
		if err != nil {
			r.logger.Error("Failed to scan categories from DynamoDB", zap.Error(err))
			return nil, fmt.Errorf("failed to list categories: %w", err)
		}

		var items []categoryItem
		if err := attributevalue.UnmarshalListOfMaps(output.Items, &items); err != nil {
			return nil, fmt.Errorf("failed to unmarshal categories: %w", err)
		}
		for _, item := range items {
			slugs = append(slugs, item.Slug)
		}

		if output.LastEvaluatedKey == nil {
			break
		}
		lastKey = output.LastEvaluatedKey
	}

	return slugs, nil
}
