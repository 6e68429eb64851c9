package dynamo

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/bookworm-api/internal/domain"
)

// feedPartition is the constant partition value all books share on the
// feed-index, so one descending query over book_id (a ULID, time-ordered)
// returns the global feed newest-first.
const feedPartition = "FEED"

// BookRepo provides typed DynamoDB operations for the books table.
type BookRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewBookRepo(client *dynamodb.Client, tableName string) *BookRepo {
	return &BookRepo{client: client, tableName: tableName}
}

func (r *BookRepo) Put(ctx context.Context, b *domain.Book) error {
	item, err := attributevalue.MarshalMap(b)
	if err != nil {
		return fmt.Errorf("marshal book: %w", err)
	}
	item["feed_pk"] = &types.AttributeValueMemberS{Value: feedPartition}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

func (r *BookRepo) Get(ctx context.Context, bookID string) (*domain.Book, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("book_id", bookID),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("book not found: %w", domain.ErrNotFound)
	}
	var b domain.Book
	if err := attributevalue.UnmarshalMap(out.Item, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BookRepo) Delete(ctx context.Context, bookID string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("book_id", bookID),
	})
	return err
}

// ListNewest returns up to n books ordered newest-first. Callers paginate by
// asking for page*pageSize items and slicing off the head; the feed is small
// enough that over-reading one query's worth of IDs is cheaper than keeping
// server-side cursor state the mobile client cannot use.
func (r *BookRepo) ListNewest(ctx context.Context, n int32) ([]domain.Book, error) {
	var books []domain.Book
	var startKey map[string]types.AttributeValue
	for {
		out, err := r.client.Query(ctx, &dynamodb.QueryInput{
			TableName:              aws.String(r.tableName),
			IndexName:              aws.String("feed-index"),
			KeyConditionExpression: aws.String("feed_pk = :p"),
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":p": &types.AttributeValueMemberS{Value: feedPartition},
			},
			ScanIndexForward:  aws.Bool(false),
			Limit:             aws.Int32(n - int32(len(books))),
			ExclusiveStartKey: startKey,
		})
		if err != nil {
			return nil, err
		}
		var page []domain.Book
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &page); err != nil {
			return nil, err
		}
		books = append(books, page...)
		if int32(len(books)) >= n || out.LastEvaluatedKey == nil {
			return books, nil
		}
		startKey = out.LastEvaluatedKey
	}
}

// Count returns the total number of books on the feed index.
func (r *BookRepo) Count(ctx context.Context) (int, error) {
	total := 0
	var startKey map[string]types.AttributeValue
	for {
		out, err := r.client.Query(ctx, &dynamodb.QueryInput{
			TableName:              aws.String(r.tableName),
			IndexName:              aws.String("feed-index"),
			KeyConditionExpression: aws.String("feed_pk = :p"),
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":p": &types.AttributeValueMemberS{Value: feedPartition},
			},
			Select:            types.SelectCount,
			ExclusiveStartKey: startKey,
		})
		if err != nil {
			return 0, err
		}
		total += int(out.Count)
		if out.LastEvaluatedKey == nil {
			return total, nil
		}
		startKey = out.LastEvaluatedKey
	}
}

// ListByUser returns all books owned by userID, newest first.
func (r *BookRepo) ListByUser(ctx context.Context, userID string) ([]domain.Book, error) {
	var books []domain.Book
	var startKey map[string]types.AttributeValue
	for {
		out, err := r.client.Query(ctx, &dynamodb.QueryInput{
			TableName:              aws.String(r.tableName),
			IndexName:              aws.String("user_id-index"),
			KeyConditionExpression: aws.String("user_id = :u"),
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":u": &types.AttributeValueMemberS{Value: userID},
			},
			ScanIndexForward:  aws.Bool(false),
			ExclusiveStartKey: startKey,
		})
		if err != nil {
			return nil, err
		}
		var page []domain.Book
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &page); err != nil {
			return nil, err
		}
		books = append(books, page...)
		if out.LastEvaluatedKey == nil {
			return books, nil
		}
		startKey = out.LastEvaluatedKey
	}
}
