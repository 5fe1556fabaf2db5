package driver

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/fleetcrm/fleet-backend-go/internal/domain/auth"
	"github.com/fleetcrm/fleet-backend-go/internal/domain/driver"
	"github.com/fleetcrm/fleet-backend-go/internal/domain/user"
	"github.com/fleetcrm/fleet-backend-go/internal/pkg/pagination"
	"github.com/fleetcrm/fleet-backend-go/internal/repository/postgresql"
	"golang.org/x/crypto/bcrypt"
)

type DriverServiceImpl struct {
	tx         postgresql.Transactor
	driverRepo driver.DriverRepository
	userRepo   user.UserRepository
}

func NewDriverService(tx postgresql.Transactor, driverRepo driver.DriverRepository, userRepo user.UserRepository) driver.DriverService {
	return &DriverServiceImpl{
		tx:         tx,
		driverRepo: driverRepo,
		userRepo:   userRepo,
	}
}

// Create registers a driver and, when credentials are given, a driver
// portal login in the same transaction.
func (s *DriverServiceImpl) Create(ctx context.Context, req driver.CreateDriverRequest) (driver.DriverResponse, error) {
	if err := req.Validate(); err != nil {
		return driver.DriverResponse{}, err
	}

	id, err := auth.IdentityFromContext(ctx)
	if err != nil {
		return driver.DriverResponse{}, err
	}

	exists, err := s.driverRepo.ExistsByMobile(ctx, id.CompanyID, req.Mobile, nil)
	if err != nil {
		return driver.DriverResponse{}, err
	}
	if exists {
		return driver.DriverResponse{}, driver.ErrDriverMobileExists
	}

	var passwordHash string
	if req.Email != nil {
		taken, err := s.userRepo.ExistsByEmail(ctx, *req.Email)
		if err != nil {
			return driver.DriverResponse{}, err
		}
		if taken {
			return driver.DriverResponse{}, driver.ErrLoginEmailExists
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return driver.DriverResponse{}, fmt.Errorf("hash password: %w", err)
		}
		passwordHash = string(hash)
	}

	var created driver.Driver
	err = s.tx.WithinTx(ctx, func(txCtx context.Context) error {
		var err error
		created, err = s.driverRepo.Create(txCtx, driver.Driver{
			CompanyID:     id.CompanyID,
			Name:          req.Name,
			Mobile:        req.Mobile,
			VehicleNumber: req.VehicleNumber,
			DailyWage:     req.DailyWage,
			IsFreelancer:  req.IsFreelancer,
			IsActive:      true,
		})
		if err != nil {
			return err
		}

		if req.Email == nil {
			return nil
		}
		login, err := s.userRepo.Create(txCtx, user.User{
			CompanyID:    id.CompanyID,
			Email:        *req.Email,
			PasswordHash: &passwordHash,
			Role:         user.RoleDriver,
			DriverID:     &created.ID,
			IsActive:     true,
		})
		if err != nil {
			return fmt.Errorf("create driver login: %w", err)
		}
		created.UserID = &login.ID
		return nil
	})
	if err != nil {
		return driver.DriverResponse{}, err
	}

	slog.Info("driver created", "driver_id", created.ID, "has_login", created.UserID != nil)
	return toResponse(created), nil
}

func (s *DriverServiceImpl) GetByID(ctx context.Context, driverID string) (driver.DriverResponse, error) {
	id, err := auth.IdentityFromContext(ctx)
	if err != nil {
		return driver.DriverResponse{}, err
	}

	d, err := s.driverRepo.GetByID(ctx, driverID, id.CompanyID)
	if err != nil {
		return driver.DriverResponse{}, err
	}
	return toResponse(d), nil
}

func (s *DriverServiceImpl) List(ctx context.Context, filter driver.DriverFilter) (driver.ListDriverResponse, error) {
	id, err := auth.IdentityFromContext(ctx)
	if err != nil {
		return driver.ListDriverResponse{}, err
	}

	filter.Page, filter.Limit = pagination.Normalize(filter.Page, filter.Limit)

	drivers, total, err := s.driverRepo.List(ctx, id.CompanyID, filter)
	if err != nil {
		return driver.ListDriverResponse{}, err
	}

	resp := driver.ListDriverResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: pagination.TotalPages(total, filter.Limit),
		Drivers:    make([]driver.DriverResponse, 0, len(drivers)),
	}
	for _, d := range drivers {
		resp.Drivers = append(resp.Drivers, toResponse(d))
	}
	return resp, nil
}

func (s *DriverServiceImpl) Update(ctx context.Context, req driver.UpdateDriverRequest) (driver.DriverResponse, error) {
	if err := req.Validate(); err != nil {
		return driver.DriverResponse{}, err
	}

	id, err := auth.IdentityFromContext(ctx)
	if err != nil {
		return driver.DriverResponse{}, err
	}

	current, err := s.driverRepo.GetByID(ctx, req.ID, id.CompanyID)
	if err != nil {
		return driver.DriverResponse{}, err
	}

	if req.Mobile != nil && *req.Mobile != current.Mobile {
		exists, err := s.driverRepo.ExistsByMobile(ctx, id.CompanyID, *req.Mobile, &current.ID)
		if err != nil {
			return driver.DriverResponse{}, err
		}
		if exists {
			return driver.DriverResponse{}, driver.ErrDriverMobileExists
		}
	}

	if err := s.driverRepo.Update(ctx, id.CompanyID, req); err != nil {
		return driver.DriverResponse{}, err
	}

	updated, err := s.driverRepo.GetByID(ctx, req.ID, id.CompanyID)
	if err != nil {
		return driver.DriverResponse{}, err
	}
	return toResponse(updated), nil
}

// Deactivate hides the driver from new duties and disables the portal
// login. History stays for payroll.
func (s *DriverServiceImpl) Deactivate(ctx context.Context, driverID string) error {
	id, err := auth.IdentityFromContext(ctx)
	if err != nil {
		return err
	}

	d, err := s.driverRepo.GetByID(ctx, driverID, id.CompanyID)
	if err != nil {
		return err
	}

	return s.tx.WithinTx(ctx, func(txCtx context.Context) error {
		if err := s.driverRepo.SetActive(txCtx, d.ID, id.CompanyID, false); err != nil {
			return err
		}
		if d.UserID != nil {
			if err := s.userRepo.SetActive(txCtx, *d.UserID, false); err != nil {
				return fmt.Errorf("disable driver login: %w", err)
			}
		}
		return nil
	})
}

func toResponse(d driver.Driver) driver.DriverResponse {
	return driver.DriverResponse{
		ID:            d.ID,
		Name:          d.Name,
		Mobile:        d.Mobile,
		VehicleNumber: d.VehicleLabel(),
		DailyWage:     d.DailyWage,
		IsFreelancer:  d.IsFreelancer,
		IsActive:      d.IsActive,
		HasLogin:      d.UserID != nil,
		CreatedAt:     d.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     d.UpdatedAt.Format(time.RFC3339),
	}
}
