package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/erpdesk/erpdesk-api/internal/domain/entity"
	"github.com/erpdesk/erpdesk-api/internal/domain/repository"
	"github.com/erpdesk/erpdesk-api/internal/presentation/http/dto/response"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	IdempotencyKeyHeader = "Idempotency-Key"
	replayedHeader       = "X-Idempotency-Replayed"
	// IdempotencyKeyTTL is how long a stored response can be replayed
	IdempotencyKeyTTL = 24 * time.Hour
	// idempotencyClaimTTL bounds how long an unfinished request holds its key
	idempotencyClaimTTL = time.Minute
	// maxIdempotencyKeyLength matches the column size
	maxIdempotencyKeyLength = 255

	inProgressMessage = "A request with this Idempotency-Key is still in progress"
)

type IdempotencyConfig struct {
	Repo repository.IdempotencyRepository
	TTL  time.Duration
}

// bodyRecorder keeps a copy of everything the handler writes.
type bodyRecorder struct {
	gin.ResponseWriter
	buf bytes.Buffer
}

func (w *bodyRecorder) Write(b []byte) (int, error) {
	w.buf.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *bodyRecorder) WriteString(s string) (int, error) {
	w.buf.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// Idempotency replays the stored response when a signed-in user resubmits a
// POST with the same Idempotency-Key. Requests without the header pass
// through. Reusing a key with a different body or route is a 422, and a
// resubmit that arrives while the first request is still running is a 409.
func Idempotency(config IdempotencyConfig) gin.HandlerFunc {
	ttl := config.TTL
	if ttl <= 0 {
		ttl = IdempotencyKeyTTL
	}

	return func(c *gin.Context) {
		key, userID, ok := idempotencyScope(c)
		if !ok {
			c.Next()
			return
		}
		if len(key) > maxIdempotencyKeyLength {
			abortWith(c, http.StatusBadRequest, "Idempotency-Key is too long")
			return
		}

		hash, err := hashBody(c.Request)
		if err != nil {
			abortWith(c, http.StatusBadRequest, "Invalid request body")
			return
		}
		endpoint := c.Request.Method + " " + c.FullPath()

		ctx := c.Request.Context()
		prior, err := config.Repo.GetByKey(ctx, key, userID)
		if err != nil {
			log.Printf("idempotency: lookup %q: %v", key, err)
			abortWith(c, http.StatusInternalServerError, "Failed to check idempotency key")
			return
		}
		if prior != nil && !prior.IsExpired() {
			answerFromPrior(c, prior, endpoint, hash)
			return
		}

		claim := &entity.IdempotencyKey{
			Key:         key,
			UserID:      userID,
			Endpoint:    endpoint,
			RequestHash: hash,
			ExpiresAt:   time.Now().Add(idempotencyClaimTTL),
		}
		claimed, err := config.Repo.Claim(ctx, claim)
		if err != nil {
			log.Printf("idempotency: claim %q: %v", key, err)
			abortWith(c, http.StatusInternalServerError, "Failed to check idempotency key")
			return
		}
		if !claimed {
			// A concurrent request with the same key won.
			winner, err := config.Repo.GetByKey(ctx, key, userID)
			if err != nil || winner == nil {
				abortWith(c, http.StatusConflict, inProgressMessage)
				return
			}
			answerFromPrior(c, winner, endpoint, hash)
			return
		}

		// The outcome is recorded even if the client has gone away.
		bg := context.WithoutCancel(ctx)
		settled := false
		defer func() {
			if settled {
				return
			}
			if err := config.Repo.Release(bg, claim.ID); err != nil {
				log.Printf("idempotency: release %q: %v", key, err)
			}
		}()

		rec := &bodyRecorder{ResponseWriter: c.Writer}
		c.Writer = rec
		c.Next()

		// Failed requests may be retried with the same key.
		status := rec.Status()
		if status < http.StatusOK || status >= http.StatusMultipleChoices {
			return
		}

		settled = true
		claim.ResponseCode = status
		claim.ResponseBody = rec.buf.String()
		claim.ExpiresAt = time.Now().Add(ttl)
		if err := config.Repo.Save(bg, claim); err != nil {
			log.Printf("idempotency: store %q: %v", key, err)
		}
	}
}

// answerFromPrior replays a finished response, or refuses while the first
// request with the key is still running.
func answerFromPrior(c *gin.Context, prior *entity.IdempotencyKey, endpoint, hash string) {
	switch {
	case prior.Endpoint != endpoint || prior.RequestHash != hash:
		abortWith(c, http.StatusUnprocessableEntity, "Idempotency-Key was already used for a different request")
	case prior.IsPending():
		abortWith(c, http.StatusConflict, inProgressMessage)
	default:
		c.Header(replayedHeader, "true")
		c.Data(prior.ResponseCode, "application/json; charset=utf-8", []byte(prior.ResponseBody))
		c.Abort()
	}
}

// idempotencyScope returns the key and the user it belongs to, or false when
// the request is not subject to replay.
func idempotencyScope(c *gin.Context) (string, uuid.UUID, bool) {
	if c.Request.Method != http.MethodPost {
		return "", uuid.Nil, false
	}
	key := c.GetHeader(IdempotencyKeyHeader)
	if key == "" {
		return "", uuid.Nil, false
	}
	userID, ok := c.Value("user_id").(uuid.UUID)
	return key, userID, ok
}

// hashBody fingerprints the body and leaves it readable for the handler.
func hashBody(r *http.Request) (string, error) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return "", err
	}
	r.Body = io.NopCloser(bytes.NewReader(body))
	sum := sha256.Sum256(body)
	return hex.EncodeToString(sum[:]), nil
}

func abortWith(c *gin.Context, status int, message string) {
	response.ErrorWithCode(c, status, message)
	c.Abort()
}
