package sqs

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
)

// Config options for the SQS publisher
type Config struct {
	Region          string // AWS region
	AccessKeyID     string // AWS access key ID
	SecretAccessKey string // AWS secret access key
	Endpoint        string // Optional custom endpoint (LocalStack, ElasticMQ)
}

// Publisher is an SQS implementation of catalog.EventPublisher. Topics
// map to queue names; queue URLs are resolved once and cached.
type Publisher struct {
	client *sqs.Client

	mu        sync.Mutex
	queueURLs map[string]string
}

// New creates a new SQS publisher
func New(config Config) (*Publisher, error) {
	if config.Region == "" {
		config.Region = "us-east-1"
	}

	var awsCfg aws.Config
	var err error

	if config.AccessKeyID != "" && config.SecretAccessKey != "" {
		awsCfg, err = awsconfig.LoadDefaultConfig(context.Background(),
			awsconfig.WithRegion(config.Region),
			awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
				config.AccessKeyID,
				config.SecretAccessKey,
				"",
			)),
		)
	} else {
		awsCfg, err = awsconfig.LoadDefaultConfig(context.Background(),
			awsconfig.WithRegion(config.Region),
		)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	var sqsOptions []func(*sqs.Options)
	if config.Endpoint != "" {
		sqsOptions = append(sqsOptions, func(o *sqs.Options) {
			o.BaseEndpoint = aws.String(config.Endpoint)
		})
	}

	return &Publisher{
		client:    sqs.NewFromConfig(awsCfg, sqsOptions...),
		queueURLs: make(map[string]string),
	}, nil
}

// Publish sends the payload to the queue named by topic
func (p *Publisher) Publish(ctx context.Context, topic string, payload []byte) error {
	queueURL, err := p.queueURL(ctx, topic)
	if err != nil {
		return err
	}

	_, err = p.client.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:    aws.String(queueURL),
		MessageBody: aws.String(string(payload)),
	})
	if err != nil {
		return fmt.Errorf("failed to send message to %s: %w", topic, err)
	}

	return nil
}

func (p *Publisher) queueURL(ctx context.Context, topic string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if url, ok := p.queueURLs[topic]; ok {
		return url, nil
	}

	result, err := p.client.GetQueueUrl(ctx, &sqs.GetQueueUrlInput{
		QueueName: aws.String(topic),
	})
	if err != nil {
		return "", fmt.Errorf("failed to resolve queue URL for %s: %w", topic, err)
	}
	if result.QueueUrl == nil {
		return "", errors.New("queue URL missing from response")
	}

	p.queueURLs[topic] = *result.QueueUrl
	return *result.QueueUrl, nil
}
