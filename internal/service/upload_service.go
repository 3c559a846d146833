package service

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/printhaus/printhaus_api/internal/config"
	"github.com/printhaus/printhaus_api/internal/utils"
)

// allowedUploadTypes maps accepted content types for customization uploads
// to their object key extension. Print models and reference images only.
var allowedUploadTypes = map[string]string{
	"model/stl":          ".stl",
	"application/sla":    ".stl",
	"model/obj":          ".obj",
	"model/3mf":          ".3mf",
	"image/png":          ".png",
	"image/jpeg":         ".jpg",
	"application/x-step": ".step",
}

const maxUploadBytes = 50 << 20

// UploadService stores customization files (print models, engraving artwork)
// in S3 using AWS Signature V4.
type UploadService struct {
	bucket          string
	region          string
	accessKeyID     string
	secretAccessKey string
}

// NewUploadService creates a new upload service.
func NewUploadService(cfg *config.S3Config) (*UploadService, error) {
	if cfg == nil {
		return nil, fmt.Errorf("S3 config is nil")
	}
	return &UploadService{
		bucket:          cfg.Bucket,
		region:          cfg.Region,
		accessKeyID:     cfg.AccessKeyID,
		secretAccessKey: cfg.SecretAccessKey,
	}, nil
}

// UploadCustomizationFile stores one uploaded file under the session's prefix
// and returns its object URL, which the cart records on the file selection.
func (s *UploadService) UploadCustomizationFile(ctx context.Context, sessionID, filename, contentType string, data []byte) (string, error) {
	ext, ok := allowedUploadTypes[contentType]
	if !ok {
		return "", utils.Validation(utils.RuleInvalidSelection, "unsupported file type %q", contentType)
	}
	if len(data) == 0 || len(data) > maxUploadBytes {
		return "", utils.Validation(utils.RuleInvalidSelection, "file size must be between 1 byte and %d MB", maxUploadBytes>>20)
	}
	if got := strings.ToLower(path.Ext(filename)); got != "" && got != ext && !(got == ".jpeg" && ext == ".jpg") {
		return "", utils.Validation(utils.RuleInvalidSelection, "file extension %q does not match content type %q", got, contentType)
	}

	key := fmt.Sprintf("customizations/%s/%s%s", sessionID, uuid.New().String(), ext)
	return s.uploadFile(ctx, key, data, contentType)
}

// uploadFile uploads a file to S3 using AWS Signature V4.
func (s *UploadService) uploadFile(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	if s.accessKeyID == "" || s.secretAccessKey == "" {
		log.Warn().Str("key", key).Msg("S3 credentials not configured - skipping upload")
		return s.ObjectURL(key), nil
	}

	url := s.ObjectURL(key)
	req, err := http.NewRequestWithContext(ctx, "PUT", url, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	now := time.Now().UTC()
	amzDate := now.Format("20060102T150405Z")
	dateStamp := now.Format("20060102")
	payloadHash := sha256Hex(data)

	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Content-Length", fmt.Sprintf("%d", len(data)))
	req.Header.Set("Host", fmt.Sprintf("%s.s3.%s.amazonaws.com", s.bucket, s.region))
	req.Header.Set("X-Amz-Date", amzDate)
	req.Header.Set("X-Amz-Content-Sha256", payloadHash)

	authorization := s.signRequest(req, payloadHash, amzDate, dateStamp)
	req.Header.Set("Authorization", authorization)

	client := &http.Client{Timeout: 60 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		log.Error().Err(err).Str("key", key).Msg("failed to upload to S3")
		return "", fmt.Errorf("failed to upload: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(resp.Body)
		log.Error().Str("key", key).Int("status", resp.StatusCode).Str("response", string(body)).Msg("S3 upload failed")
		return "", fmt.Errorf("S3 upload failed: %s", string(body))
	}

	log.Info().Str("key", key).Int("bytes", len(data)).Msg("customization file uploaded")
	return s.ObjectURL(key), nil
}

// signRequest creates the AWS Signature V4 authorization header.
func (s *UploadService) signRequest(req *http.Request, payloadHash, amzDate, dateStamp string) string {
	service := "s3"

	canonicalURI := req.URL.Path
	if canonicalURI == "" {
		canonicalURI = "/"
	}
	canonicalQueryString := ""

	signedHeaders := []string{"content-type", "host", "x-amz-content-sha256", "x-amz-date"}
	sort.Strings(signedHeaders)

	var canonicalHeaders strings.Builder
	for _, h := range signedHeaders {
		canonicalHeaders.WriteString(strings.ToLower(h))
		canonicalHeaders.WriteString(":")
		canonicalHeaders.WriteString(strings.TrimSpace(req.Header.Get(h)))
		canonicalHeaders.WriteString("\n")
	}

	signedHeadersStr := strings.Join(signedHeaders, ";")

	canonicalRequest := fmt.Sprintf("%s\n%s\n%s\n%s\n%s\n%s",
		req.Method,
		canonicalURI,
		canonicalQueryString,
		canonicalHeaders.String(),
		signedHeadersStr,
		payloadHash,
	)

	algorithm := "AWS4-HMAC-SHA256"
	credentialScope := fmt.Sprintf("%s/%s/%s/aws4_request", dateStamp, s.region, service)
	stringToSign := fmt.Sprintf("%s\n%s\n%s\n%s",
		algorithm,
		amzDate,
		credentialScope,
		sha256Hex([]byte(canonicalRequest)),
	)

	kDate := hmacSHA256([]byte("AWS4"+s.secretAccessKey), []byte(dateStamp))
	kRegion := hmacSHA256(kDate, []byte(s.region))
	kService := hmacSHA256(kRegion, []byte(service))
	kSigning := hmacSHA256(kService, []byte("aws4_request"))

	signature := hex.EncodeToString(hmacSHA256(kSigning, []byte(stringToSign)))

	return fmt.Sprintf("%s Credential=%s/%s, SignedHeaders=%s, Signature=%s",
		algorithm,
		s.accessKeyID,
		credentialScope,
		signedHeadersStr,
		signature,
	)
}

// ObjectURL returns the URL for an uploaded object.
func (s *UploadService) ObjectURL(key string) string {
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key)
}

func sha256Hex(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

func hmacSHA256(key, data []byte) []byte {
	h := hmac.New(sha256.New, key)
	h.Write(data)
	return h.Sum(nil)
}
