package rest

import (
	"net/http"

	"tecnoroute-be/internal/fleet"
	"tecnoroute-be/internal/user"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type createDriverRequest struct {
	FullName      string `json:"nombre"`
	NationalID    string `json:"cedula"`
	LicenseNumber string `json:"licencia"`
	Phone         string `json:"telefono"`
	Email         string `json:"email" validate:"omitempty,email"`
	Address       string `json:"direccion"`
	Password      string `json:"password"`
	VehiclePlate  string `json:"placa"`
}

type createVehicleRequest struct {
	Plate         string          `json:"placa"`
	Brand         string          `json:"marca"`
	Model         string          `json:"modelo"`
	Year          int             `json:"año" validate:"omitempty,gte=1950,lte=2100"`
	Type          string          `json:"tipo"`
	CapacityKG    decimal.Decimal `json:"capacidad_kg"`
	Color         string          `json:"color"`
	Fuel          string          `json:"combustible"`
	EngineNumber  string          `json:"numero_motor"`
	ChassisNumber string          `json:"numero_chasis"`
	DriverID      *uint           `json:"conductor_asignado"`
}

type updateDriverRequest struct {
	FullName        *string `json:"nombre"`
	NationalID      *string `json:"cedula"`
	LicenseNumber   *string `json:"licencia"`
	Phone           *string `json:"telefono"`
	Email           *string `json:"email" validate:"omitempty,email"`
	Address         *string `json:"direccion"`
	Password        string  `json:"password"`
	PasswordConfirm string  `json:"confirmPassword"`
}

type updateVehicleRequest struct {
	Plate         *string          `json:"placa"`
	Brand         *string          `json:"marca"`
	Model         *string          `json:"modelo"`
	Year          *int             `json:"año" validate:"omitempty,gte=1950,lte=2100"`
	Type          *string          `json:"tipo"`
	CapacityKG    *decimal.Decimal `json:"capacidad_kg"`
	Color         *string          `json:"color"`
	Fuel          *string          `json:"combustible"`
	EngineNumber  *string          `json:"numero_motor"`
	ChassisNumber *string          `json:"numero_chasis"`
	Mileage       *int             `json:"kilometraje" validate:"omitempty,gte=0"`
	DriverID      *uint            `json:"conductor_asignado"`
}

type vehicleDraftRequest struct {
	Plate         string           `json:"placa"`
	Brand         string           `json:"marca"`
	Model         string           `json:"modelo"`
	Year          *int             `json:"año" validate:"omitempty,gte=1950,lte=2100"`
	Type          string           `json:"tipo"`
	CapacityKG    *decimal.Decimal `json:"capacidad_kg"`
	Color         string           `json:"color"`
	Fuel          string           `json:"combustible"`
	EngineNumber  string           `json:"numero_motor"`
	ChassisNumber string           `json:"numero_chasis"`
}

type vehicleDriverRequest struct {
	DriverID *uint `json:"conductor_id"`
}

func (h *Handler) listDrivers(c *gin.Context) {
	f := fleet.DriverFilter{Active: queryBool(c, "activo")}
	if s := c.Query("estado"); s != "" {
		st := fleet.DriverState(s)
		f.State = &st
	}

	list, err := h.fleet.ListDrivers(c.Request.Context(), actorID(c), f)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handler) availableDrivers(c *gin.Context) {
	list, err := h.fleet.AvailableDrivers(c.Request.Context(), actorID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handler) getDriver(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	d, err := h.fleet.GetDriver(c.Request.Context(), actorID(c), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

func (h *Handler) createDriver(c *gin.Context) {
	var req createDriverRequest
	if !h.bindJSON(c, &req) {
		return
	}

	d, err := h.fleet.CreateDriver(c.Request.Context(), actorID(c), fleet.CreateDriverInput{
		FullName:      req.FullName,
		NationalID:    req.NationalID,
		LicenseNumber: req.LicenseNumber,
		Phone:         req.Phone,
		Email:         req.Email,
		Address:       req.Address,
		Password:      req.Password,
		VehiclePlate:  req.VehiclePlate,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, d)
}

func (h *Handler) changeDriverState(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req statusRequest
	if !h.bindJSON(c, &req) {
		return
	}

	d, err := h.fleet.ChangeDriverState(c.Request.Context(), actorID(c), id, fleet.DriverState(req.Status))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

func (h *Handler) deactivateDriver(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.fleet.DeactivateDriver(c.Request.Context(), actorID(c), id); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Conductor y vehículo asociado desactivados exitosamente"})
}

func (h *Handler) updateDriver(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req updateDriverRequest
	if !h.bindJSON(c, &req) {
		return
	}
	if req.PasswordConfirm != "" && req.PasswordConfirm != req.Password {
		writeError(c, user.ErrPasswordMismatch)
		return
	}

	d, err := h.fleet.UpdateDriver(c.Request.Context(), actorID(c), id, fleet.UpdateDriverInput{
		FullName:      req.FullName,
		NationalID:    req.NationalID,
		LicenseNumber: req.LicenseNumber,
		Phone:         req.Phone,
		Email:         req.Email,
		Address:       req.Address,
		Password:      req.Password,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

func (h *Handler) saveVehicleDraft(c *gin.Context) {
	var req vehicleDraftRequest
	if !h.bindJSON(c, &req) {
		return
	}

	d, err := h.fleet.SaveVehicleDraft(c.Request.Context(), actorID(c), fleet.VehicleDraft{
		Plate:         req.Plate,
		Brand:         req.Brand,
		Model:         req.Model,
		Year:          req.Year,
		Type:          fleet.VehicleType(req.Type),
		CapacityKG:    req.CapacityKG,
		Color:         req.Color,
		Fuel:          fleet.Fuel(req.Fuel),
		EngineNumber:  req.EngineNumber,
		ChassisNumber: req.ChassisNumber,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":   "Datos del vehículo guardados exitosamente",
		"conductor": d,
	})
}

func (h *Handler) listVehicles(c *gin.Context) {
	f := fleet.VehicleFilter{Active: queryBool(c, "activo")}
	if t := c.Query("tipo"); t != "" {
		vt := fleet.VehicleType(t)
		f.Type = &vt
	}
	if s := c.Query("estado"); s != "" {
		st := fleet.VehicleState(s)
		f.State = &st
	}

	list, err := h.fleet.ListVehicles(c.Request.Context(), actorID(c), f)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handler) availableVehicles(c *gin.Context) {
	list, err := h.fleet.AvailableVehicles(c.Request.Context(), actorID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handler) getVehicle(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	v, err := h.fleet.GetVehicle(c.Request.Context(), actorID(c), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

func (h *Handler) createVehicle(c *gin.Context) {
	var req createVehicleRequest
	if !h.bindJSON(c, &req) {
		return
	}

	v, err := h.fleet.CreateVehicle(c.Request.Context(), actorID(c), fleet.CreateVehicleInput{
		Plate:         req.Plate,
		Brand:         req.Brand,
		Model:         req.Model,
		Year:          req.Year,
		Type:          fleet.VehicleType(req.Type),
		CapacityKG:    req.CapacityKG,
		Color:         req.Color,
		Fuel:          fleet.Fuel(req.Fuel),
		EngineNumber:  req.EngineNumber,
		ChassisNumber: req.ChassisNumber,
		DriverID:      req.DriverID,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, v)
}

func (h *Handler) updateVehicle(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req updateVehicleRequest
	if !h.bindJSON(c, &req) {
		return
	}

	in := fleet.UpdateVehicleInput{
		Plate:         req.Plate,
		Brand:         req.Brand,
		Model:         req.Model,
		Year:          req.Year,
		CapacityKG:    req.CapacityKG,
		Color:         req.Color,
		EngineNumber:  req.EngineNumber,
		ChassisNumber: req.ChassisNumber,
		Mileage:       req.Mileage,
		DriverID:      req.DriverID,
	}
	if req.Type != nil {
		t := fleet.VehicleType(*req.Type)
		in.Type = &t
	}
	if req.Fuel != nil {
		f := fleet.Fuel(*req.Fuel)
		in.Fuel = &f
	}

	v, err := h.fleet.UpdateVehicle(c.Request.Context(), actorID(c), id, in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

func (h *Handler) assignVehicleDriver(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req vehicleDriverRequest
	if !h.bindJSON(c, &req) {
		return
	}

	v, err := h.fleet.AssignVehicleDriver(c.Request.Context(), actorID(c), id, req.DriverID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

func (h *Handler) changeVehicleState(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req statusRequest
	if !h.bindJSON(c, &req) {
		return
	}

	v, err := h.fleet.ChangeVehicleState(c.Request.Context(), actorID(c), id, fleet.VehicleState(req.Status))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}
