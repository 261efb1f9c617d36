package httpapi

import (
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/trackops/assetkeeper/internal/errs"
	"github.com/trackops/assetkeeper/internal/model"
	"github.com/trackops/assetkeeper/internal/service"
)

const dateLayout = "2006-01-02"

type createAssetRequest struct {
	SerialNumber   string `json:"serial_number" binding:"required"`
	Name           string `json:"name" binding:"required"`
	Description    string `json:"description"`
	Brand          string `json:"brand"`
	Model          string `json:"model"`
	Type           string `json:"type"`
	Department     string `json:"department"`
	Cost           string `json:"cost"`
	Status         string `json:"status"`
	PurchaseDate   string `json:"purchase_date"`
	PurchaseSource string `json:"purchase_source"`
}

type checkOutRequest struct {
	UserID     string `json:"user_id" binding:"required"`
	SiteID     string `json:"site_id"`
	LocationID string `json:"location_id"`
	Department string `json:"department"`
	Note       string `json:"note"`
}

type checkInRequest struct {
	SiteID     string `json:"site_id"`
	LocationID string `json:"location_id"`
	Department string `json:"department"`
	Note       string `json:"note"`
}

type reserveRequest struct {
	UserID     string `json:"user_id"`
	SiteID     string `json:"site_id"`
	LocationID string `json:"location_id"`
	From       string `json:"from"`
	Until      string `json:"until"`
	Note       string `json:"note"`
}

type noteRequest struct {
	Note string `json:"note"`
}

type repairRequest struct {
	Note           string `json:"note"`
	MarkAsRepaired bool   `json:"mark_as_repaired"`
}

type statusRequest struct {
	Status         string `json:"status" binding:"required"`
	Note           string `json:"note"`
	MarkAsRepaired bool   `json:"mark_as_repaired"`
	From           string `json:"from"`
	Until          string `json:"until"`
	SiteID         string `json:"site_id"`
	LocationID     string `json:"location_id"`
	Department     string `json:"department"`
}

type updateAssetRequest struct {
	Name           *string `json:"name"`
	Description    *string `json:"description"`
	SerialNumber   *string `json:"serial_number"`
	PurchaseDate   *string `json:"purchase_date"`
	PurchaseSource *string `json:"purchase_source"`
	Status         *string `json:"status"`
	Brand          *string `json:"brand"`
	Model          *string `json:"model"`
	Type           *string `json:"type"`
	Department     *string `json:"department"`
	Cost           *string `json:"cost"`
	LocationID     *string `json:"location_id"`
	SiteID         *string `json:"site_id"`
	AssignedUserID *string `json:"assigned_user_id"`
	ReservedFrom   *string `json:"reserved_from"`
	ReservedUntil  *string `json:"reserved_until"`
	StatusNote     *string `json:"status_note"`
}

type createUserRequest struct {
	Username string `json:"username" binding:"required"`
	FullName string `json:"full_name"`
}

type createSiteRequest struct {
	Name string `json:"name" binding:"required"`
}

type createLocationRequest struct {
	SiteID string `json:"site_id" binding:"required"`
	Name   string `json:"name" binding:"required"`
}

type assetResponse struct {
	Tag            string  `json:"tag"`
	SerialNumber   string  `json:"serial_number"`
	Name           string  `json:"name"`
	Description    string  `json:"description,omitempty"`
	Brand          string  `json:"brand,omitempty"`
	Model          string  `json:"model,omitempty"`
	Type           string  `json:"type,omitempty"`
	Department     string  `json:"department,omitempty"`
	Cost           string  `json:"cost,omitempty"`
	Status         string  `json:"status"`
	StatusNote     string  `json:"status_note,omitempty"`
	PurchaseDate   *string `json:"purchase_date,omitempty"`
	PurchaseSource string  `json:"purchase_source,omitempty"`
	AssignedUserID *string `json:"assigned_user_id,omitempty"`
	SiteID         *string `json:"site_id,omitempty"`
	LocationID     *string `json:"location_id,omitempty"`
	ReservedFrom   *string `json:"reserved_from,omitempty"`
	ReservedUntil  *string `json:"reserved_until,omitempty"`
	ParentTag      *string `json:"parent_tag,omitempty"`
	CreatedBy      string  `json:"created_by"`
	CreatedAt      string  `json:"created_at"`
}

type historyEntryResponse struct {
	ID        string `json:"id"`
	AssetTag  string `json:"asset_tag"`
	Field     string `json:"field"`
	Old       string `json:"old"`
	New       string `json:"new"`
	Actor     string `json:"actor"`
	CreatedAt string `json:"created_at"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func toAssetResponse(a *model.Asset) assetResponse {
	return assetResponse{
		Tag:            a.Tag,
		SerialNumber:   a.SerialNumber,
		Name:           a.Name,
		Description:    a.Description,
		Brand:          a.Brand,
		Model:          a.Model,
		Type:           a.Type,
		Department:     a.Department,
		Cost:           a.Cost,
		Status:         a.Status.String(),
		StatusNote:     a.StatusNote,
		PurchaseDate:   dateString(a.PurchaseDate),
		PurchaseSource: a.PurchaseSource,
		AssignedUserID: idString(a.AssignedUserID),
		SiteID:         idString(a.SiteID),
		LocationID:     idString(a.LocationID),
		ReservedFrom:   dateString(a.ReservedFrom),
		ReservedUntil:  dateString(a.ReservedUntil),
		ParentTag:      a.ParentTag,
		CreatedBy:      a.CreatedBy,
		CreatedAt:      a.CreatedAt.Format(time.RFC3339),
	}
}

func toHistoryResponse(es []model.HistoryEntry) []historyEntryResponse {
	out := make([]historyEntryResponse, 0, len(es))
	for _, e := range es {
		out = append(out, historyEntryResponse{
			ID:        e.ID.String(),
			AssetTag:  e.AssetTag,
			Field:     e.Field,
			Old:       e.Old,
			New:       e.New,
			Actor:     e.Actor,
			CreatedAt: e.CreatedAt.Format(time.RFC3339),
		})
	}
	return out
}

func idString(id *uuid.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}

func dateString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(dateLayout)
	return &s
}

func (r reserveRequest) toModel() (model.ReserveRequest, error) {
	out := model.ReserveRequest{Note: r.Note}
	var err error
	if out.UserID, err = parseOptionalID("user_id", r.UserID); err != nil {
		return model.ReserveRequest{}, err
	}
	if out.SiteID, err = parseOptionalID("site_id", r.SiteID); err != nil {
		return model.ReserveRequest{}, err
	}
	if out.LocationID, err = parseOptionalID("location_id", r.LocationID); err != nil {
		return model.ReserveRequest{}, err
	}
	if out.From, err = parseOptionalDate("from", r.From); err != nil {
		return model.ReserveRequest{}, err
	}
	if out.Until, err = parseOptionalDate("until", r.Until); err != nil {
		return model.ReserveRequest{}, err
	}
	return out, nil
}

func (r statusRequest) toChange() (service.StatusChange, error) {
	out := service.StatusChange{
		Note:           r.Note,
		MarkAsRepaired: r.MarkAsRepaired,
		Department:     r.Department,
	}
	var err error
	if out.ReservedFrom, err = parseOptionalDate("from", r.From); err != nil {
		return service.StatusChange{}, err
	}
	if out.ReservedUntil, err = parseOptionalDate("until", r.Until); err != nil {
		return service.StatusChange{}, err
	}
	if out.SiteID, err = parseOptionalID("site_id", r.SiteID); err != nil {
		return service.StatusChange{}, err
	}
	if out.LocationID, err = parseOptionalID("location_id", r.LocationID); err != nil {
		return service.StatusChange{}, err
	}
	return out, nil
}

func (r updateAssetRequest) toUpdate() (model.AssetUpdate, error) {
	out := model.AssetUpdate{
		Name:           r.Name,
		Description:    r.Description,
		SerialNumber:   r.SerialNumber,
		PurchaseSource: r.PurchaseSource,
		Brand:          r.Brand,
		Model:          r.Model,
		Type:           r.Type,
		Department:     r.Department,
		Cost:           r.Cost,
		StatusNote:     r.StatusNote,
	}
	if r.Status != nil {
		st := model.Status(*r.Status)
		out.Status = &st
	}
	var err error
	if r.PurchaseDate != nil {
		if out.PurchaseDate, err = parseOptionalDate("purchase_date", *r.PurchaseDate); err != nil {
			return model.AssetUpdate{}, err
		}
	}
	if r.ReservedFrom != nil {
		if out.ReservedFrom, err = parseOptionalDate("reserved_from", *r.ReservedFrom); err != nil {
			return model.AssetUpdate{}, err
		}
	}
	if r.ReservedUntil != nil {
		if out.ReservedUntil, err = parseOptionalDate("reserved_until", *r.ReservedUntil); err != nil {
			return model.AssetUpdate{}, err
		}
	}
	if r.LocationID != nil {
		if out.LocationID, err = parseOptionalID("location_id", *r.LocationID); err != nil {
			return model.AssetUpdate{}, err
		}
	}
	if r.SiteID != nil {
		if out.SiteID, err = parseOptionalID("site_id", *r.SiteID); err != nil {
			return model.AssetUpdate{}, err
		}
	}
	if r.AssignedUserID != nil {
		if out.AssignedUserID, err = parseOptionalID("assigned_user_id", *r.AssignedUserID); err != nil {
			return model.AssetUpdate{}, err
		}
	}
	return out, nil
}

// parseID parses a required uuid field.
func parseID(field, s string) (uuid.UUID, error) {
	id, err := uuid.FromString(s)
	if err != nil {
		return uuid.Nil, errs.Validationf("invalid %s %q", field, s)
	}
	return id, nil
}

// parseOptionalID parses an optional uuid field; empty means absent.
func parseOptionalID(field, s string) (*uuid.UUID, error) {
	if s == "" {
		return nil, nil
	}
	id, err := parseID(field, s)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// parseOptionalDate parses an optional YYYY-MM-DD field; empty means absent.
func parseOptionalDate(field, s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return nil, errs.Validationf("invalid %s %q, expected YYYY-MM-DD", field, s)
	}
	return &t, nil
}
