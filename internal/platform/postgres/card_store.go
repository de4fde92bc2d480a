package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/cnovais/flashdeck-api/internal/domain"
	"github.com/cnovais/flashdeck-api/internal/platform/logger"
	"github.com/cnovais/flashdeck-api/internal/store"
)

// Card kind discriminator values stored in the cards.kind column.
const (
	cardKindOpen   = "open"
	cardKindChoice = "choice"
)

// PostgresCardStore implements the store.CardStore interface
// using a PostgreSQL database as the storage backend. Both card variants
// share one table; the kind column discriminates, and the variant-specific
// columns (answer, alternatives, correct_alternative) are nullable.
type PostgresCardStore struct {
	db store.DBTX
}

// NewPostgresCardStore creates a new PostgreSQL implementation of the
// CardStore interface.
func NewPostgresCardStore(db store.DBTX) *PostgresCardStore {
	return &PostgresCardStore{
		db: db,
	}
}

// Create implements store.CardStore.Create
func (s *PostgresCardStore) Create(ctx context.Context, card domain.Card) error {
	log := logger.FromContext(ctx)

	if err := card.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	row, err := newCardRow(card)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO cards (id, deck_id, kind, prompt, answer, alternatives,
			correct_alternative, tags, difficulty_rank, image_url, audio_url,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	_, err = s.db.ExecContext(ctx, query,
		row.id,
		row.deckID,
		row.kind,
		row.prompt,
		row.answer,
		row.alternatives,
		row.correctAlternative,
		row.tags,
		row.rank,
		row.imageURL,
		row.audioURL,
		row.createdAt,
		row.updatedAt,
	)
	if err != nil {
		log.Error("failed to create card",
			"error", err,
			"card_id", row.id)
		return fmt.Errorf("failed to create card: %w", MapError(err))
	}

	return nil
}

// GetByID implements store.CardStore.GetByID
func (s *PostgresCardStore) GetByID(ctx context.Context, id uuid.UUID) (domain.Card, error) {
	query := cardSelect + ` WHERE id = $1`

	var row cardRow
	err := row.scan(s.db.QueryRowContext(ctx, query, id).Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrCardNotFound
		}
		logger.FromContext(ctx).Error("failed to get card",
			"error", err,
			"card_id", id)
		return nil, fmt.Errorf("failed to get card: %w", MapError(err))
	}

	return row.toDomain()
}

// GetByDeck implements store.CardStore.GetByDeck
func (s *PostgresCardStore) GetByDeck(ctx context.Context, deckID uuid.UUID) ([]domain.Card, error) {
	log := logger.FromContext(ctx)

	query := cardSelect + ` WHERE deck_id = $1 ORDER BY created_at ASC`

	rows, err := s.db.QueryContext(ctx, query, deckID)
	if err != nil {
		log.Error("failed to query cards",
			"error", err,
			"deck_id", deckID)
		return nil, fmt.Errorf("failed to query cards: %w", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	var cards []domain.Card
	for rows.Next() {
		var row cardRow
		if err := row.scan(rows.Scan); err != nil {
			log.Error("failed to scan card row", "error", err)
			return nil, fmt.Errorf("failed to scan card row: %w", MapError(err))
		}
		card, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		cards = append(cards, card)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate card rows: %w", MapError(err))
	}

	return cards, nil
}

// Delete implements store.CardStore.Delete
func (s *PostgresCardStore) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM cards WHERE id = $1`, id)
	if err != nil {
		logger.FromContext(ctx).Error("failed to delete card",
			"error", err,
			"card_id", id)
		return fmt.Errorf("failed to delete card: %w", MapError(err))
	}

	if err := CheckRowsAffected(result, "card"); err != nil {
		return store.ErrCardNotFound
	}
	return nil
}

const cardSelect = `
	SELECT id, deck_id, kind, prompt, answer, alternatives,
		correct_alternative, tags, difficulty_rank, image_url, audio_url,
		created_at, updated_at
	FROM cards`

// cardRow is the flat database representation of either card variant.
type cardRow struct {
	id                 uuid.UUID
	deckID             uuid.UUID
	kind               string
	prompt             string
	answer             sql.NullString
	alternatives       []byte
	correctAlternative sql.NullInt32
	tags               []byte
	rank               int
	imageURL           sql.NullString
	audioURL           sql.NullString
	createdAt          time.Time
	updatedAt          time.Time
}

// scan fills the row from a Scan-compatible function.
func (r *cardRow) scan(scan func(dest ...any) error) error {
	return scan(
		&r.id,
		&r.deckID,
		&r.kind,
		&r.prompt,
		&r.answer,
		&r.alternatives,
		&r.correctAlternative,
		&r.tags,
		&r.rank,
		&r.imageURL,
		&r.audioURL,
		&r.createdAt,
		&r.updatedAt,
	)
}

// newCardRow maps a domain card to its database representation.
func newCardRow(card domain.Card) (*cardRow, error) {
	var base domain.CardBase
	row := &cardRow{}

	switch c := card.(type) {
	case *domain.OpenCard:
		base = c.CardBase
		row.kind = cardKindOpen
		row.answer = sql.NullString{String: c.Answer, Valid: true}

	case *domain.ChoiceCard:
		base = c.CardBase
		row.kind = cardKindChoice
		alternatives, err := json.Marshal(c.Alternatives)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal alternatives: %w", err)
		}
		row.alternatives = alternatives
		row.correctAlternative = sql.NullInt32{Int32: int32(c.CorrectAlternative), Valid: true}

	default:
		return nil, fmt.Errorf("%w: unsupported card type %T", store.ErrInvalidEntity, card)
	}

	tags, err := json.Marshal(base.Tags)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal tags: %w", err)
	}

	row.id = base.CardID
	row.deckID = base.Deck
	row.prompt = base.Question
	row.tags = tags
	row.rank = base.Rank
	if base.ImageURL != "" {
		row.imageURL = sql.NullString{String: base.ImageURL, Valid: true}
	}
	if base.AudioURL != "" {
		row.audioURL = sql.NullString{String: base.AudioURL, Valid: true}
	}
	row.createdAt = base.CreatedAt
	row.updatedAt = base.UpdatedAt
	return row, nil
}

// toDomain maps the database row back to the right card variant.
func (r *cardRow) toDomain() (domain.Card, error) {
	base := domain.CardBase{
		CardID:    r.id,
		Deck:      r.deckID,
		Question:  r.prompt,
		Rank:      r.rank,
		ImageURL:  r.imageURL.String,
		AudioURL:  r.audioURL.String,
		CreatedAt: r.createdAt.UTC(),
		UpdatedAt: r.updatedAt.UTC(),
	}
	if len(r.tags) > 0 {
		if err := json.Unmarshal(r.tags, &base.Tags); err != nil {
			return nil, fmt.Errorf("failed to unmarshal tags: %w", err)
		}
	}

	switch r.kind {
	case cardKindOpen:
		return &domain.OpenCard{
			CardBase: base,
			Answer:   r.answer.String,
		}, nil

	case cardKindChoice:
		var alternatives []string
		if len(r.alternatives) > 0 {
			if err := json.Unmarshal(r.alternatives, &alternatives); err != nil {
				return nil, fmt.Errorf("failed to unmarshal alternatives: %w", err)
			}
		}
		return &domain.ChoiceCard{
			CardBase:           base,
			Alternatives:       alternatives,
			CorrectAlternative: int(r.correctAlternative.Int32),
		}, nil

	default:
		return nil, fmt.Errorf("%w: unknown card kind %q", store.ErrInvalidEntity, r.kind)
	}
}

// Ensure PostgresCardStore implements store.CardStore interface
var _ store.CardStore = (*PostgresCardStore)(nil)
