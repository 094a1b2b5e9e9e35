package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/casavia/estate-backend/internal/domain/entity"
	"github.com/casavia/estate-backend/internal/domain/valueobject"
	"github.com/casavia/estate-backend/internal/models"
	"github.com/casavia/estate-backend/internal/pkg/apperror"
	"github.com/casavia/estate-backend/internal/repository/common"
)

// OfferRepository отвечает за хранение переговоров. Предложение изменяется
// только через Append с проверкой version, история сообщений append-only.
type OfferRepository struct {
	db *sqlx.DB
}

// NewOfferRepository создаёт новый экземпляр.
func NewOfferRepository(db *sqlx.DB) *OfferRepository {
	return &OfferRepository{db: db}
}

type offerRow struct {
	ID            uuid.UUID `db:"id"`
	PropertyID    uuid.UUID `db:"property_id"`
	BuyerID       uuid.UUID `db:"buyer_id"`
	ResponsibleID uuid.UUID `db:"responsible_id"`
	InitialPrice  int64     `db:"initial_price"`
	State         string    `db:"state"`
	TurnHolder    string    `db:"turn_holder"`
	Version       int       `db:"version"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}

type offerMessageRow struct {
	ID         uuid.UUID `db:"id"`
	OfferID    uuid.UUID `db:"offer_id"`
	AuthorID   uuid.UUID `db:"author_id"`
	AuthorName string    `db:"author_name"`
	Side       string    `db:"side"`
	Kind       string    `db:"kind"`
	Price      *int64    `db:"price"`
	Note       *string   `db:"note"`
	CreatedAt  time.Time `db:"created_at"`
}

func (r offerRow) toEntity(messages []entity.OfferMessage) *entity.Offer {
	return &entity.Offer{
		ID:            r.ID,
		PropertyID:    r.PropertyID,
		BuyerID:       r.BuyerID,
		ResponsibleID: r.ResponsibleID,
		InitialPrice:  r.InitialPrice,
		State:         valueobject.OfferState(r.State),
		TurnHolder:    valueobject.Side(r.TurnHolder),
		Version:       r.Version,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
		Messages:      messages,
	}
}

func (r offerMessageRow) toEntity() entity.OfferMessage {
	return entity.OfferMessage{
		ID:         r.ID,
		OfferID:    r.OfferID,
		AuthorID:   r.AuthorID,
		AuthorName: r.AuthorName,
		Side:       valueobject.Side(r.Side),
		Kind:       valueobject.MessageKind(r.Kind),
		Price:      r.Price,
		Note:       r.Note,
		CreatedAt:  r.CreatedAt,
	}
}

// Create сохраняет новое предложение вместе с первым сообщением в одной транзакции.
func (r *OfferRepository) Create(ctx context.Context, offer *entity.Offer) error {
	return common.WithTransaction(ctx, r.db, func(tx *sqlx.Tx) error {
		query := `
			INSERT INTO offers (id, property_id, buyer_id, responsible_id, initial_price, state, turn_holder, version, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		`
		if _, err := tx.ExecContext(ctx, query,
			offer.ID, offer.PropertyID, offer.BuyerID, offer.ResponsibleID,
			offer.InitialPrice, string(offer.State), string(offer.TurnHolder),
			offer.Version, offer.CreatedAt, offer.UpdatedAt,
		); err != nil {
			return fmt.Errorf("offer repository: create offer %w", err)
		}

		for i := range offer.Messages {
			if err := insertOfferMessage(ctx, tx, &offer.Messages[i]); err != nil {
				return err
			}
		}
		return nil
	})
}

// Append фиксирует ход переговоров: CAS-обновление offers по загруженной версии
// и вставка нового сообщения. Если version уже ушла вперёд — ErrOfferConflict,
// хранилище не меняется. При успехе version агрегата увеличивается.
func (r *OfferRepository) Append(ctx context.Context, offer *entity.Offer, msg *entity.OfferMessage) error {
	err := common.WithTransaction(ctx, r.db, func(tx *sqlx.Tx) error {
		query := `
			UPDATE offers
			SET state = $1, turn_holder = $2, version = version + 1, updated_at = $3
			WHERE id = $4 AND version = $5
		`
		res, err := tx.ExecContext(ctx, query,
			string(offer.State), string(offer.TurnHolder), offer.UpdatedAt,
			offer.ID, offer.Version,
		)
		if err != nil {
			return fmt.Errorf("offer repository: append cas %w", err)
		}
		rows, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("offer repository: append rows affected %w", err)
		}
		if rows == 0 {
			return apperror.ErrOfferConflict
		}

		return insertOfferMessage(ctx, tx, msg)
	})
	if err != nil {
		return err
	}

	offer.Version++
	return nil
}

func insertOfferMessage(ctx context.Context, tx *sqlx.Tx, msg *entity.OfferMessage) error {
	query := `
		INSERT INTO offer_messages (id, offer_id, author_id, side, kind, price, note, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	if _, err := tx.ExecContext(ctx, query,
		msg.ID, msg.OfferID, msg.AuthorID, string(msg.Side), string(msg.Kind),
		msg.Price, msg.Note, msg.CreatedAt,
	); err != nil {
		return fmt.Errorf("offer repository: insert message %w", err)
	}
	return nil
}

// GetByID возвращает предложение со всей историей сообщений в порядке добавления.
func (r *OfferRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Offer, error) {
	var row offerRow
	query := `
		SELECT id, property_id, buyer_id, responsible_id, initial_price, state, turn_holder, version, created_at, updated_at
		FROM offers
		WHERE id = $1
	`
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.ErrOfferNotFound
		}
		return nil, fmt.Errorf("offer repository: get by id %w", err)
	}

	var msgRows []offerMessageRow
	msgQuery := `
		SELECT m.id, m.offer_id, m.author_id, u.display_name AS author_name,
		       m.side, m.kind, m.price, m.note, m.created_at
		FROM offer_messages m
		JOIN users u ON u.id = m.author_id
		WHERE m.offer_id = $1
		ORDER BY m.seq
	`
	if err := r.db.SelectContext(ctx, &msgRows, msgQuery, id); err != nil {
		return nil, fmt.Errorf("offer repository: get messages %w", err)
	}

	messages := make([]entity.OfferMessage, 0, len(msgRows))
	for _, m := range msgRows {
		messages = append(messages, m.toEntity())
	}

	return row.toEntity(messages), nil
}

// ListForParty возвращает все переговоры, где участник выступает покупателем
// или ответственной стороной, от недавно изменённых к старым.
func (r *OfferRepository) ListForParty(ctx context.Context, partyID uuid.UUID, limit, offset int) ([]models.OfferSummary, error) {
	var summaries []models.OfferSummary
	query := `
		SELECT o.id AS offer_id, o.property_id, p.title AS property_title,
		       o.state AS last_state, o.turn_holder, o.updated_at AS last_modified,
		       CASE WHEN o.buyer_id = $1 THEN o.responsible_id ELSE o.buyer_id END AS counterpart_id,
		       CASE WHEN o.buyer_id = $1 THEN ru.display_name ELSE bu.display_name END AS counterpart_name
		FROM offers o
		JOIN properties p ON p.id = o.property_id
		JOIN users bu ON bu.id = o.buyer_id
		JOIN users ru ON ru.id = o.responsible_id
		WHERE o.buyer_id = $1 OR o.responsible_id = $1
		ORDER BY o.updated_at DESC
		LIMIT $2 OFFSET $3
	`
	if err := r.db.SelectContext(ctx, &summaries, query, partyID, limit, offset); err != nil {
		return nil, fmt.Errorf("offer repository: list for party %w", err)
	}
	return summaries, nil
}

// ListPendingForResponsible возвращает незавершённые переговоры, где сейчас
// ход ответственной стороны. Именно этот список агент разбирает в первую очередь.
func (r *OfferRepository) ListPendingForResponsible(ctx context.Context, responsibleID uuid.UUID, limit, offset int) ([]models.OfferSummary, error) {
	var summaries []models.OfferSummary
	query := `
		SELECT o.id AS offer_id, o.property_id, p.title AS property_title,
		       o.state AS last_state, o.turn_holder, o.updated_at AS last_modified,
		       o.buyer_id AS counterpart_id, bu.display_name AS counterpart_name
		FROM offers o
		JOIN properties p ON p.id = o.property_id
		JOIN users bu ON bu.id = o.buyer_id
		WHERE o.responsible_id = $1
		  AND o.state IN ('proposed', 'countered')
		  AND o.turn_holder = 'responsible'
		ORDER BY o.updated_at DESC
		LIMIT $2 OFFSET $3
	`
	if err := r.db.SelectContext(ctx, &summaries, query, responsibleID, limit, offset); err != nil {
		return nil, fmt.Errorf("offer repository: list pending %w", err)
	}
	return summaries, nil
}
