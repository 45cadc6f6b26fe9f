package fleet

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"tecnoroute-be/internal/apperror"
	"tecnoroute-be/internal/user"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestRepository_Drafts(t *testing.T) {
	db, sqlMock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	ctx := context.Background()

	t.Run("UpdateDriverSplitsName", func(t *testing.T) {
		sqlMock.ExpectExec(`UPDATE drivers\s+SET first_name = COALESCE\(\$2, first_name\)`).
			WithArgs(uint(40), "Carlos", "Andrés Pérez", nil, nil, "310", nil, nil).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.UpdateDriver(ctx, 40, UpdateDriverInput{FullName: strPtr("Carlos Andrés Pérez"), Phone: strPtr("310")})
		assert.NoError(t, err)
	})

	t.Run("SaveDraftAsJSON", func(t *testing.T) {
		sqlMock.ExpectExec(`UPDATE drivers SET pending_vehicle = \$2 WHERE id = \$1`).
			WithArgs(uint(40), sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.SaveVehicleDraft(ctx, 40, VehicleDraft{Plate: "ABC123", Type: TypeVan}))
	})

	t.Run("DraftByPlate", func(t *testing.T) {
		sqlMock.ExpectQuery(`SELECT id, pending_vehicle FROM drivers WHERE pending_vehicle->>'placa' = \$1`).
			WithArgs("ABC123").
			WillReturnRows(sqlmock.NewRows([]string{"id", "pending_vehicle"}).
				AddRow(40, []byte(`{"placa":"ABC123","marca":"Hino","año":2019,"tipo":"furgon","capacidad_kg":"2500"}`)))

		driver, d, found, err := repo.VehicleDraftByPlate(ctx, "ABC123")
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, uint(40), driver)
		assert.Equal(t, "Hino", d.Brand)
		require.NotNil(t, d.Year)
		assert.Equal(t, 2019, *d.Year)
		assert.True(t, d.CapacityKG.Equal(decimal.NewFromInt(2500)))
	})

	t.Run("NoDraft", func(t *testing.T) {
		sqlMock.ExpectQuery(`FROM drivers WHERE pending_vehicle`).
			WithArgs("ZZZ999").
			WillReturnError(sql.ErrNoRows)

		_, _, found, err := repo.VehicleDraftByPlate(ctx, "ZZZ999")
		assert.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("UpdateVehicleOnlySetFields", func(t *testing.T) {
		year := 2021
		sqlMock.ExpectExec(`UPDATE vehicles\s+SET plate = COALESCE\(\$2, plate\)`).
			WithArgs(uint(3), nil, "Hino", nil, year, nil, nil, nil, nil, nil, nil, nil, nil).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.UpdateVehicle(ctx, 3, UpdateVehicleInput{Brand: strPtr("Hino"), Year: &year}))
	})

	assert.NoError(t, sqlMock.ExpectationsWereMet())
}

func TestService_UpdateDriver(t *testing.T) {
	ctx := context.Background()

	t.Run("ChangesPassword", func(t *testing.T) {
		svc, repo, reg := newTestService()
		repo.On("GetDriver", ctx, driverRec).Return(&Driver{ID: driverRec, Email: "carlos@tecnoroute.co"}, nil)
		repo.On("UpdateDriver", ctx, driverRec, mock.MatchedBy(func(in UpdateDriverInput) bool {
			return *in.NationalID == "1010" && in.Phone == nil
		})).Return(nil)
		reg.On("ResetPassword", ctx, "carlos@tecnoroute.co", "NuevaClave9").Return(nil)

		_, err := svc.UpdateDriver(ctx, adminID, driverRec, UpdateDriverInput{NationalID: strPtr(" 1010 "), Password: "NuevaClave9"})
		require.NoError(t, err)
		reg.AssertExpectations(t)
	})

	t.Run("DriverWithoutAccount", func(t *testing.T) {
		svc, repo, reg := newTestService()
		repo.On("GetDriver", ctx, driverRec).Return(&Driver{ID: driverRec, Email: "sinCuenta@x.co"}, nil)
		repo.On("UpdateDriver", ctx, driverRec, mock.Anything).Return(nil)
		reg.On("ResetPassword", ctx, "sinCuenta@x.co", "NuevaClave9").Return(user.ErrUserNotFound)

		_, err := svc.UpdateDriver(ctx, adminID, driverRec, UpdateDriverInput{Password: "NuevaClave9"})
		assert.NoError(t, err)
	})

	t.Run("NoPasswordLeavesAccount", func(t *testing.T) {
		svc, repo, reg := newTestService()
		repo.On("GetDriver", ctx, driverRec).Return(&Driver{ID: driverRec}, nil)
		repo.On("UpdateDriver", ctx, driverRec, mock.Anything).Return(nil)

		_, err := svc.UpdateDriver(ctx, adminID, driverRec, UpdateDriverInput{Phone: strPtr("311")})
		require.NoError(t, err)
		reg.AssertNotCalled(t, "ResetPassword", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("BlankRequiredField", func(t *testing.T) {
		svc, repo, _ := newTestService()
		repo.On("GetDriver", ctx, driverRec).Return(&Driver{ID: driverRec}, nil)

		_, err := svc.UpdateDriver(ctx, adminID, driverRec, UpdateDriverInput{LicenseNumber: strPtr("  ")})
		assert.ErrorIs(t, err, ErrDriverFieldsRequired)
		repo.AssertNotCalled(t, "UpdateDriver", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("DuplicateLicense", func(t *testing.T) {
		svc, repo, _ := newTestService()
		repo.On("GetDriver", ctx, driverRec).Return(&Driver{ID: driverRec}, nil)
		repo.On("UpdateDriver", ctx, driverRec, mock.Anything).
			Return(&pq.Error{Code: "23505", Constraint: "drivers_license_number_key"})

		_, err := svc.UpdateDriver(ctx, adminID, driverRec, UpdateDriverInput{LicenseNumber: strPtr("LIC-2")})
		assert.ErrorIs(t, err, ErrDriverIdentityTaken)
	})

	t.Run("DriverCannotEdit", func(t *testing.T) {
		svc, _, _ := newTestService()
		_, err := svc.UpdateDriver(ctx, driverID, driverRec, UpdateDriverInput{})
		assert.ErrorIs(t, err, ErrAdminOnly)
	})
}

func TestService_UpdateVehicle(t *testing.T) {
	ctx := context.Background()
	d := otherDrvRec

	t.Run("NormalizesPlate", func(t *testing.T) {
		svc, repo, _ := newTestService()
		repo.On("GetVehicle", ctx, uint(3)).Return(&Vehicle{ID: 3}, nil)
		repo.On("UpdateVehicle", ctx, uint(3), mock.MatchedBy(func(in UpdateVehicleInput) bool {
			return *in.Plate == "XYZ987"
		})).Return(nil)

		_, err := svc.UpdateVehicle(ctx, adminID, 3, UpdateVehicleInput{Plate: strPtr(" xyz987 ")})
		assert.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("DriverHoldsOtherVehicle", func(t *testing.T) {
		svc, repo, _ := newTestService()
		repo.On("GetVehicle", ctx, uint(3)).Return(&Vehicle{ID: 3}, nil)
		repo.On("GetDriver", ctx, otherDrvRec).Return(&Driver{ID: otherDrvRec, FullName: "Ana Gómez"}, nil)
		repo.On("VehicleByDriver", ctx, otherDrvRec).Return(&Vehicle{ID: 8, Plate: "JKL456"}, true, nil)

		_, err := svc.UpdateVehicle(ctx, adminID, 3, UpdateVehicleInput{DriverID: &d})
		require.Error(t, err)
		assert.Equal(t, apperror.KindConflict, apperror.KindOf(err))
		assert.Equal(t, "El conductor Ana Gómez ya está asignado al vehículo JKL456", apperror.Message(err))
		repo.AssertNotCalled(t, "UpdateVehicle", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("PlateTaken", func(t *testing.T) {
		svc, repo, _ := newTestService()
		repo.On("GetVehicle", ctx, uint(3)).Return(&Vehicle{ID: 3}, nil)
		repo.On("UpdateVehicle", ctx, uint(3), mock.Anything).
			Return(&pq.Error{Code: "23505", Constraint: "vehicles_plate_key"})

		_, err := svc.UpdateVehicle(ctx, adminID, 3, UpdateVehicleInput{Plate: strPtr("JKL456")})
		assert.ErrorIs(t, err, ErrPlateExists)
	})

	t.Run("Validation", func(t *testing.T) {
		svc, repo, _ := newTestService()
		repo.On("GetVehicle", ctx, uint(3)).Return(&Vehicle{ID: 3}, nil)

		_, err := svc.UpdateVehicle(ctx, adminID, 3, UpdateVehicleInput{Plate: strPtr(" ")})
		assert.ErrorIs(t, err, ErrPlateRequired)

		zero := decimal.Zero
		_, err = svc.UpdateVehicle(ctx, adminID, 3, UpdateVehicleInput{CapacityKG: &zero})
		assert.ErrorIs(t, err, ErrInvalidCapacity)

		bad := VehicleType("avion")
		_, err = svc.UpdateVehicle(ctx, adminID, 3, UpdateVehicleInput{Type: &bad})
		assert.ErrorIs(t, err, ErrInvalidType)
	})

	t.Run("Missing", func(t *testing.T) {
		svc, repo, _ := newTestService()
		repo.On("GetVehicle", ctx, uint(9)).Return(nil, sql.ErrNoRows)

		_, err := svc.UpdateVehicle(ctx, adminID, 9, UpdateVehicleInput{})
		assert.ErrorIs(t, err, ErrVehicleNotFound)
	})
}

func TestService_SaveVehicleDraft(t *testing.T) {
	ctx := context.Background()

	t.Run("AppliesDefaults", func(t *testing.T) {
		svc, repo, _ := newTestService()
		want := VehicleDraft{Plate: "ABC123", Brand: "Hino", Type: TypeTruck, Color: "Blanco", Fuel: FuelGasoline}
		repo.On("PlateExists", ctx, "ABC123").Return(false, nil)
		repo.On("SaveVehicleDraft", ctx, driverRec, want).Return(nil)
		repo.On("GetDriver", ctx, driverRec).Return(&Driver{ID: driverRec}, nil)

		saved, err := svc.SaveVehicleDraft(ctx, driverID, VehicleDraft{Plate: " abc123", Brand: " Hino "})
		require.NoError(t, err)
		assert.Equal(t, want, saved.PendingVehicle)
		repo.AssertExpectations(t)
	})

	t.Run("NotADriver", func(t *testing.T) {
		svc, _, _ := newTestService()
		_, err := svc.SaveVehicleDraft(ctx, customerID, VehicleDraft{Plate: "ABC123"})
		assert.ErrorIs(t, err, ErrDriverNotFound)
	})

	t.Run("RegisteredPlate", func(t *testing.T) {
		svc, repo, _ := newTestService()
		repo.On("PlateExists", ctx, "ABC123").Return(true, nil)

		_, err := svc.SaveVehicleDraft(ctx, driverID, VehicleDraft{Plate: "ABC123"})
		assert.ErrorIs(t, err, ErrPlateExists)
	})

	t.Run("PlateDeclaredByOtherDriver", func(t *testing.T) {
		svc, repo, _ := newTestService()
		repo.On("PlateExists", ctx, "ABC123").Return(false, nil)
		repo.On("SaveVehicleDraft", ctx, driverRec, mock.Anything).
			Return(&pq.Error{Code: "23505", Constraint: "drivers_pending_plate_key"})

		_, err := svc.SaveVehicleDraft(ctx, driverID, VehicleDraft{Plate: "ABC123"})
		assert.ErrorIs(t, err, ErrDraftPlateTaken)
	})

	t.Run("InvalidFuel", func(t *testing.T) {
		svc, _, _ := newTestService()
		_, err := svc.SaveVehicleDraft(ctx, driverID, VehicleDraft{Plate: "ABC123", Fuel: "carbon"})
		assert.ErrorIs(t, err, ErrInvalidFuel)
	})
}

func TestService_CreateVehicleFromDraft(t *testing.T) {
	ctx := context.Background()
	year := 2019
	capacity := decimal.NewFromInt(2500)
	draft := &VehicleDraft{Plate: "ABC123", Brand: "Hino", Year: &year, Type: TypeVan, CapacityKG: &capacity, Color: "Rojo", Fuel: FuelDiesel}

	t.Run("FillsAndAssigns", func(t *testing.T) {
		svc, repo, _ := newTestService()
		repo.On("VehicleDraftByPlate", ctx, "ABC123").Return(driverRec, draft, true, nil)
		repo.On("GetDriver", ctx, driverRec).Return(&Driver{ID: driverRec}, nil)
		repo.On("VehicleByDriver", ctx, driverRec).Return(nil, false, nil)
		repo.On("CreateVehicle", ctx, mock.MatchedBy(func(v *Vehicle) bool {
			return v.Brand == "Hino" && v.Model == "Sin especificar" && v.Year == 2019 &&
				v.Type == TypeVan && v.CapacityKG.Equal(capacity) && v.Fuel == FuelDiesel &&
				v.DriverID != nil && *v.DriverID == driverRec
		})).Return(&Vehicle{ID: 6, Plate: "ABC123"}, nil)
		repo.On("ClearVehicleDraft", ctx, driverRec).Return(nil)
		repo.On("GetVehicle", ctx, uint(6)).Return(&Vehicle{ID: 6}, nil)

		_, err := svc.CreateVehicle(ctx, adminID, CreateVehicleInput{Plate: "abc123"})
		require.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("AdminFieldsWin", func(t *testing.T) {
		svc, repo, _ := newTestService()
		repo.On("VehicleDraftByPlate", ctx, "ABC123").Return(driverRec, draft, true, nil)
		repo.On("GetDriver", ctx, driverRec).Return(&Driver{ID: driverRec}, nil)
		repo.On("VehicleByDriver", ctx, driverRec).Return(nil, false, nil)
		repo.On("CreateVehicle", ctx, mock.MatchedBy(func(v *Vehicle) bool {
			return v.Brand == "Chevrolet" && v.CapacityKG.Equal(decimal.NewFromInt(4000))
		})).Return(&Vehicle{ID: 6}, nil)
		repo.On("ClearVehicleDraft", ctx, driverRec).Return(errors.New("db down"))
		repo.On("GetVehicle", ctx, uint(6)).Return(&Vehicle{ID: 6}, nil)

		_, err := svc.CreateVehicle(ctx, adminID, CreateVehicleInput{Plate: "ABC123", Brand: "Chevrolet", CapacityKG: decimal.NewFromInt(4000)})
		assert.NoError(t, err)
	})

	t.Run("DraftDriverAlreadyHasVehicle", func(t *testing.T) {
		svc, repo, _ := newTestService()
		repo.On("VehicleDraftByPlate", ctx, "ABC123").Return(driverRec, draft, true, nil)
		repo.On("GetDriver", ctx, driverRec).Return(&Driver{ID: driverRec, FullName: "Carlos Pérez"}, nil)
		repo.On("VehicleByDriver", ctx, driverRec).Return(&Vehicle{ID: 7, Plate: "XYZ987"}, true, nil)

		_, err := svc.CreateVehicle(ctx, adminID, CreateVehicleInput{Plate: "ABC123"})
		assert.Equal(t, apperror.KindConflict, apperror.KindOf(err))
		repo.AssertNotCalled(t, "ClearVehicleDraft", mock.Anything, mock.Anything)
	})
}
