package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/surveykeeper/internal/logging"
	sc "github.com/dmitrijs2005/surveykeeper/internal/server/config"
	"github.com/dmitrijs2005/surveykeeper/internal/server/models"
	"github.com/dmitrijs2005/surveykeeper/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

var (
	loadDefaultAWSConfig = awsconfig.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
		return c.PutObject(ctx, in, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}
)

// Export is a rendered CSV of a survey's responses. Key and URL are set
// when the file was uploaded to object storage.
type Export struct {
	Filename string
	CSV      []byte
	Key      string
	URL      string
}

// ExportService renders response exports and, when a bucket is configured,
// uploads them and hands out a presigned download link.
type ExportService struct {
	repomanager repomanager.RepositoryManager
	config      *sc.Config
	log         logging.Logger
	now         func() time.Time
}

func NewExportService(m repomanager.RepositoryManager, config *sc.Config, log logging.Logger) *ExportService {
	return &ExportService{
		repomanager: m,
		config:      config,
		log:         log.With("module", "exports"),
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// ExportResponses renders every response of an owned survey as CSV.
func (s *ExportService) ExportResponses(ctx context.Context, surveyID, ownerID string) (*Export, error) {
	conn := s.repomanager.Conn()

	survey, err := s.repomanager.Surveys(conn).GetOwned(ctx, surveyID, ownerID)
	if err != nil {
		return nil, notFound(err, surveyNotFound)
	}

	responses, err := s.repomanager.Responses(conn).AllBySurvey(ctx, surveyID)
	if err != nil {
		return nil, fmt.Errorf("error loading responses: %w", err)
	}

	data, err := RenderCSV(survey, responses)
	if err != nil {
		return nil, fmt.Errorf("error rendering export: %w", err)
	}

	export := &Export{
		Filename: fmt.Sprintf("survey-%s-responses.csv", survey.ID),
		CSV:      data,
	}
	if !s.config.ExportsToS3() {
		return export, nil
	}

	key := s.storageKey(survey.ID)
	url, err := s.upload(ctx, key, data)
	if err != nil {
		return nil, fmt.Errorf("error uploading export: %w", err)
	}
	export.Key = key
	export.URL = url

	s.log.Info(ctx, "responses exported", "survey_id", survey.ID, "key", key, "rows", len(responses))
	return export, nil
}

func (s *ExportService) storageKey(surveyID string) string {
	d := s.now()
	return fmt.Sprintf("exports/%s/%d/%02d/%02d/%v.csv", surveyID, d.Year(), d.Month(), d.Day(), uuid.New())
}

func (s *ExportService) getClient(ctx context.Context) (*s3.Client, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		awsconfig.WithRegion(s.config.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3AccessKey,
			s.config.S3SecretKey,
			"",
		)))
	if err != nil {
		return nil, err
	}

	return newS3ClientFromConfig(cfg, func(o *s3.Options) {
		if s.config.S3BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
			o.UsePathStyle = true
		}
	}), nil
}

func (s *ExportService) upload(ctx context.Context, key string, data []byte) (string, error) {
	client, err := s.getClient(ctx)
	if err != nil {
		return "", err
	}

	bucket := s.config.S3Bucket
	_, err = putObject(client, ctx, &s3.PutObjectInput{
		Bucket:      &bucket,
		Key:         &key,
		Body:        bytes.NewReader(data),
		ContentType: aws.String("text/csv"),
	})
	if err != nil {
		return "", err
	}

	req, err := presignGetObject(newS3PresignClient(client), ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(s.config.ExportURLValidity))
	if err != nil {
		return "", err
	}
	return req.URL, nil
}

// RenderCSV writes one row per response. Columns are the response metadata
// followed by the survey's question ids in order; answer keys that match no
// question are appended in sorted order so nothing is dropped.
func RenderCSV(survey *models.Survey, responses []models.Response) ([]byte, error) {
	columns := make([]string, 0, len(survey.Questions))
	known := make(map[string]struct{}, len(survey.Questions))
	for _, q := range survey.Questions {
		columns = append(columns, q.ID)
		known[q.ID] = struct{}{}
	}

	var extra []string
	for _, r := range responses {
		for k := range r.Answers {
			if _, ok := known[k]; !ok {
				known[k] = struct{}{}
				extra = append(extra, k)
			}
		}
	}
	sort.Strings(extra)
	columns = append(columns, extra...)

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := append([]string{"response_id", "completed_at", "respondent_email", "respondent_name"}, columns...)
	if err := w.Write(header); err != nil {
		return nil, err
	}

	for _, r := range responses {
		row := []string{r.ID, r.CompletedAt.UTC().Format(time.RFC3339), safeCell(r.Respondent.Email), safeCell(r.Respondent.Name)}
		for _, c := range columns {
			row = append(row, formatAnswer(r.Answers[c]))
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// formatAnswer flattens an answer value into a single cell. Lists from
// multiple-choice questions are joined with "; ".
func formatAnswer(v any) string {
	switch a := v.(type) {
	case nil:
		return ""
	case string:
		return safeCell(a)
	case []any:
		parts := make([]string, 0, len(a))
		for _, item := range a {
			parts = append(parts, formatAnswer(item))
		}
		return safeCell(strings.Join(parts, "; "))
	case []string:
		return safeCell(strings.Join(a, "; "))
	case bool, float64, int, int64:
		return fmt.Sprint(a)
	default:
		b, err := json.Marshal(a)
		if err != nil {
			return fmt.Sprint(a)
		}
		return string(b)
	}
}

// safeCell quotes free text that a spreadsheet would evaluate as a formula.
func safeCell(s string) string {
	if s != "" && strings.ContainsRune("=+-@\t\r", rune(s[0])) {
		return "'" + s
	}
	return s
}
