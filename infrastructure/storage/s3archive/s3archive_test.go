package s3archive

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/campaign-reporter/infrastructure/sink"
)

type fakeS3 struct {
	inputs []*s3.PutObjectInput
	bodies []string
	err    error
}

func (f *fakeS3) PutObject(_ context.Context, params *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.inputs = append(f.inputs, params)
	body, _ := io.ReadAll(params.Body)
	f.bodies = append(f.bodies, string(body))
	return &s3.PutObjectOutput{}, f.err
}

func TestArchive_Publish(t *testing.T) {
	report := sink.Report{
		RunID:       "abc123",
		CSV:         []byte("Campaign Name\n"),
		GeneratedAt: time.Date(2025, 6, 30, 20, 0, 0, 0, time.UTC),
	}

	tests := []struct {
		name     string
		client   *fakeS3
		validate func(t *testing.T, client *fakeS3, err error)
	}{
		{
			name:   "grava o csv particionado pela data IST",
			client: &fakeS3{},
			validate: func(t *testing.T, client *fakeS3, err error) {
				require.NoError(t, err)
				require.Len(t, client.inputs, 1)
				assert.Equal(t, "reports", *client.inputs[0].Bucket)
				// 20:00 UTC de 30/06 já é 01/07 em IST
				assert.Equal(t, "campaign-reports/2025/07/campaign-details-2025-07-01-abc123.csv", *client.inputs[0].Key)
				assert.Equal(t, "Campaign Name\n", client.bodies[0])
			},
		},
		{
			name:   "erro do S3 e propagado",
			client: &fakeS3{err: errors.New("access denied")},
			validate: func(t *testing.T, _ *fakeS3, err error) {
				assert.ErrorContains(t, err, "access denied")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			archive := NewWithClient(tt.client, "reports", "campaign-reports/")
			err := archive.Publish(context.Background(), report)
			tt.validate(t, tt.client, err)
		})
	}
}

func TestArchive_NotConfigured(t *testing.T) {
	archive := &Archive{}
	assert.ErrorIs(t, archive.Publish(context.Background(), sink.Report{}), sink.ErrNotConfigured)
}
