package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gofrs/uuid/v5"

	"github.com/trackops/assetkeeper/internal/model"
)

func (s *Server) createAsset(c *gin.Context) {
	act, ok := actor(c)
	if !ok {
		return
	}
	var req createAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorBody{Code: "VALIDATION", Message: "invalid json: " + err.Error()})
		return
	}
	purchase, err := parseOptionalDate("purchase_date", req.PurchaseDate)
	if err != nil {
		writeError(c, err)
		return
	}
	a, err := s.assets.Create(c.Request.Context(), model.NewAsset{
		SerialNumber:   req.SerialNumber,
		Name:           req.Name,
		Description:    req.Description,
		Brand:          req.Brand,
		Model:          req.Model,
		Type:           req.Type,
		Department:     req.Department,
		Cost:           req.Cost,
		Status:         model.Status(req.Status),
		PurchaseDate:   purchase,
		PurchaseSource: req.PurchaseSource,
	}, act)
	if err != nil {
		writeError(c, err)
		return
	}
	c.Header("Location", "/api/v1/assets/"+a.Tag)
	c.JSON(http.StatusCreated, toAssetResponse(a))
}

func (s *Server) listAssets(c *gin.Context) {
	if serial := c.Query("serial"); serial != "" {
		a, err := s.assets.GetBySerial(c.Request.Context(), serial)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, []assetResponse{toAssetResponse(a)})
		return
	}
	as, err := s.assets.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	out := make([]assetResponse, 0, len(as))
	for i := range as {
		out = append(out, toAssetResponse(&as[i]))
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) getAsset(c *gin.Context) {
	a, err := s.assets.GetByTag(c.Request.Context(), c.Param("tag"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toAssetResponse(a))
}

func (s *Server) assetHistory(c *gin.Context) {
	es, err := s.assets.History(c.Request.Context(), c.Param("tag"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toHistoryResponse(es))
}

func (s *Server) updateAsset(c *gin.Context) {
	act, ok := actor(c)
	if !ok {
		return
	}
	var req updateAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorBody{Code: "VALIDATION", Message: "invalid json: " + err.Error()})
		return
	}
	upd, err := req.toUpdate()
	if err != nil {
		writeError(c, err)
		return
	}
	a, err := s.assets.ApplyUpdate(c.Request.Context(), c.Param("tag"), upd, act)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toAssetResponse(a))
}

func (s *Server) softDeleteAsset(c *gin.Context) {
	act, ok := actor(c)
	if !ok {
		return
	}
	a, err := s.assets.SoftDelete(c.Request.Context(), c.Param("tag"), act)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toAssetResponse(a))
}

func (s *Server) checkOut(c *gin.Context) {
	act, ok := actor(c)
	if !ok {
		return
	}
	var req checkOutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorBody{Code: "VALIDATION", Message: "invalid json: " + err.Error()})
		return
	}
	userID, err := parseID("user_id", req.UserID)
	if err != nil {
		writeError(c, err)
		return
	}
	siteID, err := parseOptionalID("site_id", req.SiteID)
	if err != nil {
		writeError(c, err)
		return
	}
	locationID, err := parseOptionalID("location_id", req.LocationID)
	if err != nil {
		writeError(c, err)
		return
	}
	a, err := s.assets.CheckOut(c.Request.Context(), c.Param("tag"), userID, siteID, locationID, req.Department, req.Note, act)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toAssetResponse(a))
}

func (s *Server) checkIn(c *gin.Context) {
	act, ok := actor(c)
	if !ok {
		return
	}
	var req checkInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorBody{Code: "VALIDATION", Message: "invalid json: " + err.Error()})
		return
	}
	siteID, err := parseOptionalID("site_id", req.SiteID)
	if err != nil {
		writeError(c, err)
		return
	}
	locationID, err := parseOptionalID("location_id", req.LocationID)
	if err != nil {
		writeError(c, err)
		return
	}
	a, err := s.assets.CheckIn(c.Request.Context(), c.Param("tag"), siteID, locationID, req.Department, req.Note, act)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toAssetResponse(a))
}

func (s *Server) reserve(c *gin.Context) {
	act, ok := actor(c)
	if !ok {
		return
	}
	var req reserveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorBody{Code: "VALIDATION", Message: "invalid json: " + err.Error()})
		return
	}
	mreq, err := req.toModel()
	if err != nil {
		writeError(c, err)
		return
	}
	a, err := s.assets.Reserve(c.Request.Context(), c.Param("tag"), mreq, act)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toAssetResponse(a))
}

func (s *Server) dispose(c *gin.Context) {
	act, ok := actor(c)
	if !ok {
		return
	}
	var req noteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorBody{Code: "VALIDATION", Message: "invalid json: " + err.Error()})
		return
	}
	a, err := s.assets.Dispose(c.Request.Context(), c.Param("tag"), req.Note, act)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toAssetResponse(a))
}

func (s *Server) markAsLost(c *gin.Context) {
	act, ok := actor(c)
	if !ok {
		return
	}
	var req noteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorBody{Code: "VALIDATION", Message: "invalid json: " + err.Error()})
		return
	}
	a, err := s.assets.MarkAsLost(c.Request.Context(), c.Param("tag"), req.Note, act)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toAssetResponse(a))
}

func (s *Server) markInRepair(c *gin.Context) {
	act, ok := actor(c)
	if !ok {
		return
	}
	var req repairRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorBody{Code: "VALIDATION", Message: "invalid json: " + err.Error()})
		return
	}
	a, err := s.assets.MarkInRepair(c.Request.Context(), c.Param("tag"), req.Note, req.MarkAsRepaired, act)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toAssetResponse(a))
}

func (s *Server) updateStatus(c *gin.Context) {
	act, ok := actor(c)
	if !ok {
		return
	}
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorBody{Code: "VALIDATION", Message: "invalid json: " + err.Error()})
		return
	}
	change, err := req.toChange()
	if err != nil {
		writeError(c, err)
		return
	}
	a, err := s.assets.UpdateStatus(c.Request.Context(), c.Param("tag"), model.Status(req.Status), change, act)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toAssetResponse(a))
}

func (s *Server) resetStatus(c *gin.Context) {
	act, ok := actor(c)
	if !ok {
		return
	}
	var req noteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorBody{Code: "VALIDATION", Message: "invalid json: " + err.Error()})
		return
	}
	a, err := s.assets.ResetStatus(c.Request.Context(), c.Param("tag"), req.Note, act)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toAssetResponse(a))
}

// --- directory admin ---

func (s *Server) createUser(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorBody{Code: "VALIDATION", Message: "invalid json: " + err.Error()})
		return
	}
	u := &model.User{ID: uuid.Must(uuid.NewV4()), Username: req.Username, FullName: req.FullName}
	if err := s.dir.CreateUser(c.Request.Context(), u); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": u.ID.String(), "username": u.Username, "full_name": u.FullName})
}

func (s *Server) createSite(c *gin.Context) {
	var req createSiteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorBody{Code: "VALIDATION", Message: "invalid json: " + err.Error()})
		return
	}
	site := &model.Site{ID: uuid.Must(uuid.NewV4()), Name: req.Name}
	if err := s.dir.CreateSite(c.Request.Context(), site); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": site.ID.String(), "name": site.Name})
}

func (s *Server) createLocation(c *gin.Context) {
	var req createLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorBody{Code: "VALIDATION", Message: "invalid json: " + err.Error()})
		return
	}
	siteID, err := parseID("site_id", req.SiteID)
	if err != nil {
		writeError(c, err)
		return
	}
	loc := &model.Location{ID: uuid.Must(uuid.NewV4()), SiteID: siteID, Name: req.Name}
	if err := s.dir.CreateLocation(c.Request.Context(), loc); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": loc.ID.String(), "site_id": loc.SiteID.String(), "name": loc.Name})
}
