package service

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"rag-filesearch-be/internal/apperr"
	"rag-filesearch-be/internal/dto"
	"rag-filesearch-be/internal/entity"
	"rag-filesearch-be/internal/pkg/logger"
	"rag-filesearch-be/pkg/filesearch"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
)

func TestLogin(t *testing.T) {
	cfg := testConfig(t)
	cfg.Admin.Password = "secret123"
	cfg.Admin.JWTSecret = "signing-secret"
	cfg.Admin.TokenTTL = time.Hour
	svc := NewAdminService(cfg, filesearch.NewClient("k"), testStateRepo(t, cfg), logger.NewNopLogger())

	res, err := svc.Login(&dto.AdminLoginRequest{Password: "secret123"})
	assert.NoError(t, err)
	assert.True(t, res.Success)
	assert.NotEmpty(t, res.Token)

	token, err := jwt.Parse(res.Token, func(*jwt.Token) (interface{}, error) {
		return []byte("signing-secret"), nil
	})
	assert.NoError(t, err)
	claims := token.Claims.(jwt.MapClaims)
	assert.Equal(t, true, claims["admin"])
}

func TestLoginWrongPassword(t *testing.T) {
	cfg := testConfig(t)
	cfg.Admin.Password = "secret123"
	svc := NewAdminService(cfg, filesearch.NewClient("k"), testStateRepo(t, cfg), logger.NewNopLogger())

	_, err := svc.Login(&dto.AdminLoginRequest{Password: "wrong"})
	assert.Equal(t, apperr.KindUnauthorized, apperr.KindOf(err))
}

func TestLoginNotConfigured(t *testing.T) {
	cfg := testConfig(t)
	svc := NewAdminService(cfg, filesearch.NewClient("k"), testStateRepo(t, cfg), logger.NewNopLogger())

	_, err := svc.Login(&dto.AdminLoginRequest{Password: "anything"})
	assert.Equal(t, apperr.KindUnauthorized, apperr.KindOf(err))
}

func TestAPIInfo(t *testing.T) {
	cfg := testConfig(t)
	state := testStateRepo(t, cfg)
	assert.NoError(t, state.SetStoreName("fileSearchStores/abc"))
	assert.NoError(t, state.AppendFile(entity.FileDescriptor{
		Filename: "a.txt",
		CustomMetadata: entity.Metadata{
			"year":   entity.NumberValue(2024),
			"author": entity.StringValue("alice"),
		},
	}))
	assert.NoError(t, state.AppendFile(entity.FileDescriptor{
		Filename:       "b.txt",
		CustomMetadata: entity.Metadata{"topic": entity.StringValue("go")},
	}))
	svc := NewAdminService(cfg, filesearch.NewClient("the-key"), state, logger.NewNopLogger())

	info := svc.APIInfo()
	assert.True(t, info.Success)
	assert.Equal(t, "the-key", info.APIKey)
	assert.True(t, info.StoreExists)
	assert.Equal(t, "fileSearchStores/abc", *info.StoreName)
	assert.Equal(t, 2, info.FileCount)
	assert.Equal(t, "gemini-2.5-flash", info.Model)
	// Union of metadata keys across files, sorted.
	assert.Equal(t, []string{"author", "topic", "year"}, info.MetadataKeys)
}

func TestUpdateAPIKeyRewritesEnvAndRotatesClient(t *testing.T) {
	cfg := testConfig(t)
	cfg.App.EnvFilePath = filepath.Join(t.TempDir(), ".env")
	assert.NoError(t, os.WriteFile(cfg.App.EnvFilePath, []byte("APP_PORT=5001\nGEMINI_API_KEY=old-key\nGEMINI_MODEL=gemini-2.5-flash\n"), 0600))

	client := filesearch.NewClient("old-key")
	svc := NewAdminService(cfg, client, testStateRepo(t, cfg), logger.NewNopLogger())

	assert.NoError(t, svc.UpdateAPIKey(&dto.UpdateAPIKeyRequest{APIKey: "new-key"}))
	assert.Equal(t, "new-key", client.APIKey())

	data, err := os.ReadFile(cfg.App.EnvFilePath)
	assert.NoError(t, err)
	assert.Equal(t, "APP_PORT=5001\nGEMINI_API_KEY=new-key\nGEMINI_MODEL=gemini-2.5-flash\n", string(data))
}

func TestUpdateAPIKeyAppendsWhenMissing(t *testing.T) {
	cfg := testConfig(t)
	cfg.App.EnvFilePath = filepath.Join(t.TempDir(), ".env")

	client := filesearch.NewClient("")
	svc := NewAdminService(cfg, client, testStateRepo(t, cfg), logger.NewNopLogger())

	assert.NoError(t, svc.UpdateAPIKey(&dto.UpdateAPIKeyRequest{APIKey: "fresh-key"}))

	data, err := os.ReadFile(cfg.App.EnvFilePath)
	assert.NoError(t, err)
	assert.Equal(t, "GEMINI_API_KEY=fresh-key\n", string(data))
}

func TestUpdateAPIKeyRejectsEmpty(t *testing.T) {
	cfg := testConfig(t)
	svc := NewAdminService(cfg, filesearch.NewClient("k"), testStateRepo(t, cfg), logger.NewNopLogger())

	err := svc.UpdateAPIKey(&dto.UpdateAPIKeyRequest{APIKey: "   "})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}
