package service

import (
	"github.com/rs/zerolog/log"

	"github.com/printhaus/printhaus_api/internal/models"
	"github.com/printhaus/printhaus_api/internal/repository"
	"github.com/printhaus/printhaus_api/internal/sse"
	"github.com/printhaus/printhaus_api/internal/utils"
)

// QueueService manages the production queue. The queue lifecycle is
// deliberately decoupled from the order lifecycle: completing every item of
// an order never moves the order, shipping stays an explicit admin decision.
type QueueService struct {
	queueRepo *repository.QueueRepository
	hub       *sse.Hub
}

// NewQueueService constructs a QueueService.
func NewQueueService(queueRepo *repository.QueueRepository, hub *sse.Hub) *QueueService {
	return &QueueService{queueRepo: queueRepo, hub: hub}
}

// List returns filtered queue items with printer, material and assignee
// names resolved.
func (s *QueueService) List(filter *repository.QueueFilter) ([]models.ProductionQueueItem, error) {
	return s.queueRepo.List(filter)
}

// Get returns one queue item.
func (s *QueueService) Get(id int) (*models.ProductionQueueItem, error) {
	item, err := s.queueRepo.GetByID(id)
	if err != nil {
		if repository.IsNoRows(err) {
			return nil, utils.ErrQueueItemNotFound
		}
		return nil, err
	}
	return item, nil
}

// QueueUpdateRequest carries a partial queue item update. Nil fields are
// left untouched.
type QueueUpdateRequest struct {
	Status     *models.QueueStatus `json:"status"`
	PrinterID  *int                `json:"printerId"`
	MaterialID *int                `json:"materialId"`
	AssigneeID *int                `json:"assigneeId"`
	Priority   *int                `json:"priority"`
	Notes      *string             `json:"notes"`
}

// Update applies a partial update. A status change is validated against the
// queue transition table before anything is written.
func (s *QueueService) Update(id int, req *QueueUpdateRequest) (*models.ProductionQueueItem, error) {
	item, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	if req.Status != nil && *req.Status != item.Status {
		if err := models.CheckQueueTransition(item.Status, *req.Status); err != nil {
			return nil, utils.Validation(utils.RuleIllegalTransition, "%s", err.Error())
		}
		item.Status = *req.Status
	}
	if req.PrinterID != nil {
		item.PrinterID = req.PrinterID
	}
	if req.MaterialID != nil {
		item.MaterialID = req.MaterialID
	}
	if req.AssigneeID != nil {
		item.AssigneeID = req.AssigneeID
	}
	if req.Priority != nil {
		item.Priority = *req.Priority
	}
	if req.Notes != nil {
		item.Notes = req.Notes
	}

	if err := s.queueRepo.Update(item); err != nil {
		return nil, err
	}

	s.hub.Broadcast(&sse.AdminEvent{
		Event:       sse.EventQueueItemChanged,
		OrderNumber: item.OrderNumber,
		QueueItemID: item.ID,
		QueueStatus: string(item.Status),
	})
	log.Info().Int("queue_item_id", item.ID).Str("status", string(item.Status)).Msg("queue item updated")
	return s.Get(id)
}
