package s3archive

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/campaign-reporter/infrastructure/sink"
	"github.com/vfg2006/campaign-reporter/internal/config"
	"github.com/vfg2006/campaign-reporter/pkg/utils"
)

const Name = "s3"

// PutObjectAPI é o subconjunto do cliente S3 usado pelo arquivo
type PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Archive guarda cada snapshot CSV no bucket, particionado por ano/mês
type Archive struct {
	client PutObjectAPI
	bucket string
	prefix string
}

func New(ctx context.Context, cfg *config.Config) (*Archive, error) {
	if cfg.Archive.Bucket == "" {
		return &Archive{}, nil
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Archive.Region))
	if err != nil {
		return nil, fmt.Errorf("s3archive: erro ao carregar configuração AWS: %w", err)
	}

	return NewWithClient(s3.NewFromConfig(awsCfg), cfg.Archive.Bucket, cfg.Archive.Prefix), nil
}

func NewWithClient(client PutObjectAPI, bucket, prefix string) *Archive {
	return &Archive{client: client, bucket: bucket, prefix: prefix}
}

func (a *Archive) Name() string {
	return Name
}

// Key monta a chave do objeto para o relatório
func (a *Archive) Key(report sink.Report) string {
	generated := report.GeneratedAt.In(utils.IST)
	file := fmt.Sprintf("campaign-details-%s-%s.csv", generated.Format(time.DateOnly), report.RunID)
	return path.Join(a.prefix, generated.Format("2006"), generated.Format("01"), file)
}

func (a *Archive) Publish(ctx context.Context, report sink.Report) error {
	if a.client == nil || a.bucket == "" {
		return sink.ErrNotConfigured
	}

	key := a.Key(report)
	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(report.CSV),
		ContentType: aws.String("text/csv"),
	})
	if err != nil {
		return fmt.Errorf("s3archive: erro ao enviar %s: %w", key, err)
	}

	logrus.WithFields(logrus.Fields{
		"bucket": a.bucket,
		"key":    key,
		"run_id": report.RunID,
	}).Info("s3archive: snapshot arquivado")

	return nil
}
