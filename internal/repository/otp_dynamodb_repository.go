package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/tukang/tukang-api/internal/models"
)

// DynamoOTPAPI is the part of *dynamodb.Client the OTP store calls.
type DynamoOTPAPI interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
}

// DynamoOTPRepository stores one item per email (PK OTP#<email>, SK METADATA)
// with a TTL attribute so DynamoDB reaps expired codes.
type DynamoOTPRepository struct {
	client    DynamoOTPAPI
	tableName string
	logger    *logrus.Logger
}

func NewDynamoOTPRepository(client DynamoOTPAPI, tableName string, logger *logrus.Logger) *DynamoOTPRepository {
	return &DynamoOTPRepository{
		client:    client,
		tableName: tableName,
		logger:    logger,
	}
}

func dynamoOTPKey(email string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"PK": &types.AttributeValueMemberS{Value: fmt.Sprintf("OTP#%s", email)},
		"SK": &types.AttributeValueMemberS{Value: "METADATA"},
	}
}

// Issue overwrites the item for otp.Email, dropping any earlier code.
func (r *DynamoOTPRepository) Issue(ctx context.Context, otp *models.OTP) error {
	otp.ID = uuid.New().String()
	otp.CreatedAt = time.Now()
	otp.Used = false

	item, err := attributevalue.MarshalMap(otp)
	if err != nil {
		return fmt.Errorf("failed to marshal OTP: %w", err)
	}
	for k, v := range dynamoOTPKey(otp.Email) {
		item[k] = v
	}
	item["TTL"] = &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", otp.ExpiresAt.Unix())}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	if err != nil {
		r.logger.WithError(err).WithField("email", otp.Email).Error("Failed to store OTP in DynamoDB")
		return fmt.Errorf("failed to store OTP: %w", err)
	}

	return nil
}

func (r *DynamoOTPRepository) FindValid(ctx context.Context, email, code string, now time.Time) (*models.OTP, error) {
	result, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(r.tableName),
		Key:            dynamoOTPKey(email),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get OTP: %w", err)
	}

	if result.Item == nil {
		return nil, ErrNotFound
	}

	var otp models.OTP
	if err := attributevalue.UnmarshalMap(result.Item, &otp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal OTP data: %w", err)
	}

	if otp.Code != code || !otp.Valid(now) {
		return nil, ErrNotFound
	}
	return &otp, nil
}

// MarkUsed flips the used flag only if the stored item is still otp and
// unused. A failed condition returns ErrNotFound.
func (r *DynamoOTPRepository) MarkUsed(ctx context.Context, otp *models.OTP) error {
	_, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:           aws.String(r.tableName),
		Key:                 dynamoOTPKey(otp.Email),
		UpdateExpression:    aws.String("SET #used = :used"),
		ConditionExpression: aws.String("#id = :id AND #used = :unused"),
		ExpressionAttributeNames: map[string]string{
			"#used": "used",
			"#id":   "id",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":used":   &types.AttributeValueMemberBOOL{Value: true},
			":unused": &types.AttributeValueMemberBOOL{Value: false},
			":id":     &types.AttributeValueMemberS{Value: otp.ID},
		},
	})
	if err != nil {
		var condErr *types.ConditionalCheckFailedException
		if errors.As(err, &condErr) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to mark OTP used: %w", err)
	}

	otp.Used = true
	return nil
}
