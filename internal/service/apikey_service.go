package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"galactic-bank-api/internal/core/domain"
	"galactic-bank-api/internal/core/ports"
	"galactic-bank-api/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const apiKeyPrefix = "gb_live_"

// APIKeyServiceImpl implements ports.APIKeyService. Only the SHA-256 hash
// of a key is stored; the raw value is returned once at issue time and
// cannot be recovered afterwards.
type APIKeyServiceImpl struct {
	keyRepo ports.APIKeyRepository
	log     zerolog.Logger
}

// NewAPIKeyService creates a new APIKeyServiceImpl.
func NewAPIKeyService(keyRepo ports.APIKeyRepository, log zerolog.Logger) *APIKeyServiceImpl {
	return &APIKeyServiceImpl{keyRepo: keyRepo, log: log}
}

// Issue creates an API key for ownerName and returns the record together
// with the raw secret.
func (s *APIKeyServiceImpl) Issue(ctx context.Context, ownerName string) (*domain.APIKey, string, error) {
	if ownerName == "" {
		return nil, "", apperror.Validation("owner_name is required")
	}

	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		return nil, "", apperror.InternalError(fmt.Errorf("generate key material: %w", err))
	}
	rawKey := apiKeyPrefix + hex.EncodeToString(secret)

	key := &domain.APIKey{
		ID:        uuid.New(),
		OwnerName: ownerName,
		KeyHash:   HashAPIKey(rawKey),
		CreatedAt: time.Now().UTC(),
	}
	if err := s.keyRepo.Create(ctx, key); err != nil {
		return nil, "", apperror.InternalError(fmt.Errorf("store api key: %w", err))
	}

	s.log.Info().
		Str("key_id", key.ID.String()).
		Str("owner_name", ownerName).
		Msg("api key issued")

	return key, rawKey, nil
}

// Authenticate resolves a raw key to its stored record, or nil when the
// key is unknown. Storage errors are surfaced so the caller can tell
// "bad key" apart from "store down".
func (s *APIKeyServiceImpl) Authenticate(ctx context.Context, rawKey string) (*domain.APIKey, error) {
	if rawKey == "" {
		return nil, nil
	}
	key, err := s.keyRepo.GetByHash(ctx, HashAPIKey(rawKey))
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("look up api key: %w", err))
	}
	return key, nil
}

// HashAPIKey returns the hex SHA-256 digest used as the storage and
// lookup handle for a raw key. The hash is deterministic so lookups need
// no stored salt.
func HashAPIKey(rawKey string) string {
	sum := sha256.Sum256([]byte(rawKey))
	return hex.EncodeToString(sum[:])
}
