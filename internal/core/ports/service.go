package ports

import (
	"context"
	"time"

	"github.com/oakvale-college/lifecycle-service/internal/core/domain"
)

type PersonService interface {
	Create(ctx context.Context, firstName, lastName, personType string, startDate, endDate *time.Time, notes string) (*domain.Person, error)
	Get(ctx context.Context, id string) (*domain.Person, error)
	List(ctx context.Context, filter domain.PersonFilter) ([]domain.Person, error)
	Update(ctx context.Context, id string, upd domain.PersonUpdate) (*domain.Person, error)
}

type LifecycleService interface {
	Submit(ctx context.Context, personID, requestType, submittedRole string, effectiveDate time.Time, notes string, submittedBy string) (*domain.LifecycleRequest, error)
	Get(ctx context.Context, id string) (*domain.LifecycleRequest, error)
	List(ctx context.Context, filter domain.RequestFilter, caller domain.Caller) ([]domain.LifecycleRequest, error)
	Update(ctx context.Context, id string, upd domain.RequestUpdate, caller domain.Caller) (*domain.LifecycleRequest, error)
	LinkTicket(ctx context.Context, requestID, ticketID, ticketType string, caller domain.Caller) (*domain.TicketLink, error)
}

type TaskService interface {
	Get(ctx context.Context, id string) (*domain.LifecycleTask, error)
	ListByRequest(ctx context.Context, requestID string) ([]domain.LifecycleTask, error)
	Complete(ctx context.Context, taskID string, completed bool, notes string, caller domain.Caller) (*domain.LifecycleTask, error)
}

type AssetService interface {
	List(ctx context.Context, page, pageSize int) ([]domain.Asset, int, error)
	Get(ctx context.Context, assetID int) (*domain.Asset, error)
	PersonAssets(ctx context.Context, personID string) ([]domain.Asset, error)
	Sync(ctx context.Context) (int, error)
}
