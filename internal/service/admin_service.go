package service

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"rag-filesearch-be/internal/apperr"
	"rag-filesearch-be/internal/config"
	"rag-filesearch-be/internal/dto"
	"rag-filesearch-be/internal/pkg/logger"
	"rag-filesearch-be/internal/repository/statefile"
	"rag-filesearch-be/pkg/filesearch"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// IAdminService owns the credential surface: documentation payload, key
// rotation, and the login that gates both.
type IAdminService interface {
	Login(req *dto.AdminLoginRequest) (*dto.AdminLoginResponse, error)
	APIInfo() *dto.APIInfoResponse
	UpdateAPIKey(req *dto.UpdateAPIKeyRequest) error
}

type adminService struct {
	cfg          *config.Config
	fs           *filesearch.Client
	state        *statefile.Repository
	logger       logger.ILogger
	passwordHash []byte
}

func NewAdminService(
	cfg *config.Config,
	fs *filesearch.Client,
	state *statefile.Repository,
	log logger.ILogger,
) IAdminService {
	s := &adminService{
		cfg:    cfg,
		fs:     fs,
		state:  state,
		logger: log,
	}
	if cfg.Admin.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(cfg.Admin.Password), bcrypt.DefaultCost)
		if err != nil {
			log.Error("Admin", "Could not hash admin password", map[string]interface{}{"error": err.Error()})
		} else {
			s.passwordHash = hash
		}
	}
	return s
}

// Login exchanges the admin password for a short-lived bearer token.
func (s *adminService) Login(req *dto.AdminLoginRequest) (*dto.AdminLoginResponse, error) {
	if len(s.passwordHash) == 0 {
		return nil, apperr.Unauthorizedf("Admin login is not configured")
	}
	if err := bcrypt.CompareHashAndPassword(s.passwordHash, []byte(req.Password)); err != nil {
		return nil, apperr.Unauthorizedf("Invalid password")
	}

	claims := jwt.MapClaims{
		"admin": true,
		"exp":   time.Now().Add(s.cfg.Admin.TokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.Admin.JWTSecret))
	if err != nil {
		return nil, fmt.Errorf("signing token: %w", err)
	}

	return &dto.AdminLoginResponse{Success: true, Token: signed}, nil
}

func (s *adminService) APIInfo() *dto.APIInfoResponse {
	files := s.state.Files()

	keySet := map[string]bool{}
	for _, file := range files {
		for key := range file.CustomMetadata {
			keySet[key] = true
		}
	}
	metadataKeys := make([]string, 0, len(keySet))
	for key := range keySet {
		metadataKeys = append(metadataKeys, key)
	}
	sort.Strings(metadataKeys)

	var storeName *string
	if name := s.state.StoreName(); name != "" {
		storeName = &name
	}

	return &dto.APIInfoResponse{
		Success:                true,
		APIKey:                 s.fs.APIKey(),
		StoreExists:            storeName != nil,
		StoreName:              storeName,
		StoreDisplayName:       s.cfg.FileSearch.StoreDisplayName,
		FileCount:              len(files),
		Files:                  files,
		Model:                  s.cfg.FileSearch.Model,
		ExampleMetadataFilters: []string{},
		MetadataKeys:           metadataKeys,
	}
}

// UpdateAPIKey rewrites the GEMINI_API_KEY line of the env file and
// rotates the key used by the client in place.
func (s *adminService) UpdateAPIKey(req *dto.UpdateAPIKeyRequest) error {
	key := strings.TrimSpace(req.APIKey)
	if key == "" {
		return apperr.Validationf("API key cannot be empty")
	}

	if err := s.rewriteEnvFile(key); err != nil {
		return fmt.Errorf("updating env file: %w", err)
	}

	s.fs.SetAPIKey(key)
	s.logger.Info("Admin", "API key updated", nil)
	return nil
}

func (s *adminService) rewriteEnvFile(key string) error {
	const envKey = "GEMINI_API_KEY="
	path := s.cfg.App.EnvFilePath

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}

	var out []string
	found := false
	if len(data) > 0 {
		for _, line := range strings.Split(strings.TrimRight(string(data), "\n"), "\n") {
			if strings.HasPrefix(line, envKey) {
				out = append(out, envKey+key)
				found = true
				continue
			}
			out = append(out, line)
		}
	}
	if !found {
		out = append(out, envKey+key)
	}

	return os.WriteFile(path, []byte(strings.Join(out, "\n")+"\n"), 0600)
}
