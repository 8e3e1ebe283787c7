package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/klauspost/compress/zstd"

	"rxledger/internal/core/id"
	"rxledger/internal/domain/audit"
)

// CompressionAlgo specifies the compression algorithm used.
type CompressionAlgo string

const (
	CompressionNone CompressionAlgo = "none"
	CompressionZstd CompressionAlgo = "zstd"
)

// AuditSink implements audit.Sink on the sys_audit table.
//
// Entries are written on the pool, never on the caller's transaction:
// the audit record must survive even though it is advisory, and a sink
// failure must not roll back the business transaction it describes.
// Large payloads are zstd-compressed.
type AuditSink struct {
	pool              *Pool
	encoder           *zstd.Encoder
	decoder           *zstd.Decoder
	compressThreshold int // bytes
}

// NewAuditSink creates an audit sink writing to the given pool.
func NewAuditSink(pool *Pool) (*AuditSink, error) {
	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("create zstd encoder: %w", err)
	}

	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}

	return &AuditSink{
		pool:              pool,
		encoder:           encoder,
		decoder:           decoder,
		compressThreshold: 10 * 1024, // 10KB
	}, nil
}

// Ensure compile-time interface compliance.
var _ audit.Sink = (*AuditSink)(nil)

// Record implements audit.Sink.
func (s *AuditSink) Record(ctx context.Context, entry audit.Entry) error {
	if id.IsNil(entry.ID) {
		entry.ID = id.New()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	payload, compressed, algo := s.compressPayload([]byte(entry.Payload))

	_, err := s.pool.Exec(ctx, `
		INSERT INTO sys_audit (
			id, actor_id, branch_id, action, entity_type, entity_id,
			detail, payload, payload_compressed, compression_algo, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`,
		entry.ID, entry.ActorID, entry.BranchID, entry.Action,
		entry.EntityType, entry.EntityID,
		entry.Detail, payload, compressed, algo, entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}
	return nil
}

// compressPayload stores payloads over the threshold zstd-compressed;
// exactly one of payload and compressed is non-nil in the row.
func (s *AuditSink) compressPayload(payload []byte) (plain, compressed []byte, algo CompressionAlgo) {
	if len(payload) <= s.compressThreshold {
		return payload, nil, CompressionNone
	}
	return nil, s.encoder.EncodeAll(payload, nil), CompressionZstd
}

// DecompressPayload restores a compressed audit payload. Readers of
// sys_audit use it on rows whose compression_algo is zstd.
func (s *AuditSink) DecompressPayload(compressed []byte) ([]byte, error) {
	return s.decoder.DecodeAll(compressed, nil)
}
