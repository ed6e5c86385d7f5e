package service

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"gitlab.com/dirk.krummacker/giftlist-service/internal/apperr"
	"gitlab.com/dirk.krummacker/giftlist-service/internal/engine"
	"gitlab.com/dirk.krummacker/giftlist-service/internal/export"
	"gitlab.com/dirk.krummacker/giftlist-service/internal/model"
	api "gitlab.com/dirk.krummacker/giftlist-service/pkg/model"
)

// Version is reported by the status endpoint.
const Version = "1.0.0"

// allowedIncludeDeleted are the allowed values for the 'includeDeleted' URL parameter.
var allowedIncludeDeleted = []string{"true", "false"}

// Options configures the HTTP router.
type Options struct {
	// Logging turns on gin's request logger.
	Logging bool
	// MaxUploadBytes limits the size of an uploaded spreadsheet.
	MaxUploadBytes int64
	// Logger receives handler failures.
	Logger logrus.FieldLogger
}

// handler serves the REST API on top of an engine.
type handler struct {
	contacts  *engine.Engine
	maxUpload int64
	log       logrus.FieldLogger
}

// SetupHttpRouter initializes the REST API router and registers all endpoints.
func SetupHttpRouter(e *engine.Engine, opts Options) *gin.Engine {
	var router *gin.Engine
	if opts.Logging {
		router = gin.Default()
	} else {
		router = gin.New()
		router.Use(gin.Recovery())
	}
	h := &handler{contacts: e, maxUpload: opts.MaxUploadBytes, log: opts.Logger}
	if h.maxUpload <= 0 {
		h.maxUpload = 16 << 20
	}
	if h.log == nil {
		h.log = logrus.StandardLogger()
	}
	router.MaxMultipartMemory = h.maxUpload

	routes := router.Group("/api")
	routes.GET("/status", h.status)
	routes.GET("/contacts/:category", h.listContacts)
	routes.POST("/contacts/:category", h.saveContacts)
	routes.POST("/contacts/:category/bulk", h.updateBulk)
	routes.POST("/contacts/:category/trash/:id", h.moveToTrash)
	routes.GET("/trash", h.listTrash)
	routes.DELETE("/trash", h.emptyTrash)
	routes.DELETE("/trash/:id", h.deletePermanently)
	routes.POST("/trash/:id/restore", h.restore)
	routes.POST("/import/:category", h.importSpreadsheet)
	routes.GET("/export/shipping", h.exportShipping)
	routes.GET("/settings", h.getSettings)
	routes.POST("/settings", h.saveSettings)
	return router
}

// status reports that the service is up.
//
// Example REST API call:
//
//	> curl http://localhost:8080/api/status
func (h *handler) status(c *gin.Context) {
	c.IndentedJSON(http.StatusOK, api.Status{Status: "online", Version: Version, ExcelSupport: true})
}

// listContacts responds with the contacts of a category as JSON.
//
// The URL parameter 'includeDeleted' set to 'true' adds the contacts in the trash. If it is set to
// 'false' or omitted, only active contacts are returned.
//
// REST API calls:
//
//	> curl "http://localhost:8080/api/contacts/customer"
//	> curl "http://localhost:8080/api/contacts/partner?includeDeleted=true"
func (h *handler) listContacts(c *gin.Context) {
	includeDeleted := c.DefaultQuery("includeDeleted", "false")
	if !contains(allowedIncludeDeleted, includeDeleted) {
		c.AbortWithStatusJSON(http.StatusBadRequest, api.Response{Error: "invalid includeDeleted parameter"})
		return
	}
	contacts, err := h.contacts.ListContacts(c.Request.Context(), model.Category(c.Param("category")), includeDeleted == "true")
	if err != nil {
		h.abortWithError(c, err)
		return
	}
	c.IndentedJSON(http.StatusOK, api.Response{Success: true, Data: nonNil(contacts)})
}

// saveContacts replaces the active contacts of a category with the JSON list in the request body.
// Contacts missing from the list are moved to the trash, contacts with a known id are updated and
// all others are created. It responds with the new list of active contacts.
//
// Example REST API call:
//
//	> curl http://localhost:8080/api/contacts/customer --request "POST" --header "Content-Type: application/json" --data '[{"id": 1, "name": "Mario Rossi"}, {"name": "Anna Bianchi", "company": "Acme", "giftFlag": "1"}]'
func (h *handler) saveContacts(c *gin.Context) {
	var raw []map[string]any
	if err := c.ShouldBindJSON(&raw); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, api.Response{Error: "invalid JSON"})
		return
	}
	items := make([]engine.Item, len(raw))
	for i, r := range raw {
		items[i] = engine.ParseItem(r)
	}
	result, err := h.contacts.Reconcile(c.Request.Context(), model.Category(c.Param("category")), items)
	if err != nil {
		h.abortWithError(c, err)
		return
	}
	c.IndentedJSON(http.StatusOK, api.Response{
		Success: true,
		Data:    nonNil(result.Contacts),
		Meta: api.SyncSummary{
			Created:     result.Created,
			Updated:     result.Updated,
			Deleted:     result.Deleted,
			Duplicates:  result.Duplicates,
			ForeignIds:  result.Foreign,
			UnknownKeys: result.Unknown,
		},
	})
}

// updateBulk sets one property to the same value on several contacts of a category. It responds
// with the list of active contacts.
//
// Example REST API call:
//
//	> curl http://localhost:8080/api/contacts/customer/bulk --request "POST" --header "Content-Type: application/json" --data '{"ids": [1, 2], "propertyName": "giftFlag", "propertyValue": "1"}'
func (h *handler) updateBulk(c *gin.Context) {
	var req api.BulkUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, api.Response{Error: "invalid JSON"})
		return
	}
	result, err := h.contacts.BulkUpdate(c.Request.Context(), model.Category(c.Param("category")),
		req.Ids, req.PropertyName, req.PropertyValue)
	if err != nil {
		h.abortWithError(c, err)
		return
	}
	response := api.Response{
		Success: true,
		Data:    nonNil(result.Contacts),
		Meta:    api.BulkSummary{Updated: result.Updated, PropertyIgnored: result.PropertyIgnored},
	}
	if result.PropertyIgnored {
		response.Message = "unknown property " + strconv.Quote(req.PropertyName) + ", nothing was changed"
	}
	c.IndentedJSON(http.StatusOK, response)
}

// moveToTrash moves the contact whose ID value matches the id parameter of the request URL to the
// trash.
//
// Example REST API call:
//
//	> curl http://localhost:8080/api/contacts/customer/trash/56 --request "POST"
func (h *handler) moveToTrash(c *gin.Context) {
	id, ok := parseId(c)
	if !ok {
		return
	}
	if err := h.contacts.MoveToTrash(c.Request.Context(), model.Category(c.Param("category")), id); err != nil {
		h.abortWithError(c, err)
		return
	}
	c.IndentedJSON(http.StatusOK, api.Response{Success: true})
}

// listTrash responds with every contact in the trash.
//
// Example REST API call:
//
//	> curl http://localhost:8080/api/trash
func (h *handler) listTrash(c *gin.Context) {
	contacts, err := h.contacts.ListTrash(c.Request.Context())
	if err != nil {
		h.abortWithError(c, err)
		return
	}
	c.IndentedJSON(http.StatusOK, api.Response{Success: true, Data: nonNil(contacts)})
}

// restore takes the contact whose ID value matches the id parameter of the request URL out of the
// trash.
//
// Example REST API call:
//
//	> curl http://localhost:8080/api/trash/56/restore --request "POST"
func (h *handler) restore(c *gin.Context) {
	id, ok := parseId(c)
	if !ok {
		return
	}
	if err := h.contacts.Restore(c.Request.Context(), id); err != nil {
		h.abortWithError(c, err)
		return
	}
	c.IndentedJSON(http.StatusOK, api.Response{Success: true})
}

// deletePermanently removes the trashed contact whose ID value matches the id parameter of the
// request URL from the database.
//
// Example REST API call:
//
//	> curl http://localhost:8080/api/trash/56 --request "DELETE"
func (h *handler) deletePermanently(c *gin.Context) {
	id, ok := parseId(c)
	if !ok {
		return
	}
	if err := h.contacts.DeletePermanently(c.Request.Context(), id); err != nil {
		h.abortWithError(c, err)
		return
	}
	c.IndentedJSON(http.StatusOK, api.Response{Success: true, Message: "contact deleted"})
}

// emptyTrash removes every trashed contact from the database.
//
// Example REST API call:
//
//	> curl http://localhost:8080/api/trash --request "DELETE"
func (h *handler) emptyTrash(c *gin.Context) {
	removed, err := h.contacts.EmptyTrash(c.Request.Context())
	if err != nil {
		h.abortWithError(c, err)
		return
	}
	c.IndentedJSON(http.StatusOK, api.Response{
		Success: true,
		Message: strconv.FormatInt(removed, 10) + " contacts deleted",
	})
}

// importSpreadsheet merges the contacts of an uploaded workbook (form field 'file') into a
// category. Rows are matched to existing contacts by name and company.
//
// Example REST API call:
//
//	> curl http://localhost:8080/api/import/customer --request "POST" --form "file=@clienti.xlsx"
func (h *handler) importSpreadsheet(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUpload)
	header, err := c.FormFile("file")
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, api.Response{Error: "no file uploaded"})
		return
	}
	if header.Filename == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, api.Response{Error: "no file selected"})
		return
	}
	file, err := header.Open()
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, api.Response{Error: "the uploaded file cannot be read"})
		return
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, api.Response{Error: "the uploaded file cannot be read"})
		return
	}

	result, err := h.contacts.Import(c.Request.Context(), model.Category(c.Param("category")), header.Filename, data)
	if err != nil {
		h.abortWithError(c, err)
		return
	}
	summary := api.ImportSummary{
		Created:         result.Created,
		Updated:         result.Updated,
		Sheet:           result.Sheet,
		SheetFallback:   result.SheetFallback,
		Positional:      result.Positional,
		Dropped:         result.Dropped,
		UnmappedColumns: result.Unmapped,
	}
	for _, conflict := range result.Conflicts {
		summary.Conflicts = append(summary.Conflicts, api.ImportConflict(conflict))
	}
	c.IndentedJSON(http.StatusOK, api.Response{
		Success: true,
		Message: "import completed: " + strconv.Itoa(result.Created) + " new records, " +
			strconv.Itoa(result.Updated) + " updated records",
		Data: nonNil(result.Contacts),
		Meta: summary,
	})
}

// exportShipping responds with the courier workbook of every active contact flagged for the
// courier. The URL parameters 'category' and 'assignee' narrow the selection.
//
// REST API calls:
//
//	> curl "http://localhost:8080/api/export/shipping" --output Spedizioni_GLS.xlsx
//	> curl "http://localhost:8080/api/export/shipping?category=partner&assignee=Marco" --output partner.xlsx
func (h *handler) exportShipping(c *gin.Context) {
	filter := export.Filter{
		Category: model.Category(c.Query("category")),
		Assignee: c.Query("assignee"),
	}
	data, err := h.contacts.ExportShipping(c.Request.Context(), filter)
	if err != nil {
		h.abortWithError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+export.FileName+`"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

// getSettings responds with the application settings.
//
// Example REST API call:
//
//	> curl http://localhost:8080/api/settings
func (h *handler) getSettings(c *gin.Context) {
	settings, err := h.contacts.Settings(c.Request.Context())
	if err != nil {
		h.abortWithError(c, err)
		return
	}
	c.IndentedJSON(http.StatusOK, api.Response{Success: true, Data: settings})
}

// saveSettings stores the settings in the JSON object of the request body.
//
// Example REST API call:
//
//	> curl http://localhost:8080/api/settings --request "POST" --header "Content-Type: application/json" --data '{"currentYear": 2026, "assignees": ["Marco", "Matteo"]}'
func (h *handler) saveSettings(c *gin.Context) {
	var values map[string]any
	if err := c.ShouldBindJSON(&values); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, api.Response{Error: "invalid JSON"})
		return
	}
	if err := h.contacts.SaveSettings(c.Request.Context(), values); err != nil {
		h.abortWithError(c, err)
		return
	}
	c.IndentedJSON(http.StatusOK, api.Response{Success: true})
}

// parseId reads the id parameter of the request URL. An id that is not a positive number is
// answered with NOT FOUND.
func parseId(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		c.AbortWithStatusJSON(http.StatusNotFound, api.Response{Error: "invalid id parameter"})
		return 0, false
	}
	return id, true
}

// abortWithError answers with the status code that matches the kind of the error.
func (h *handler) abortWithError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch apperr.KindOf(err) {
	case apperr.Validation, apperr.ImportFormat:
		status = http.StatusBadRequest
	case apperr.NotFound:
		status = http.StatusNotFound
	default:
		h.log.WithError(err).WithField("path", c.FullPath()).Error("request failed")
	}
	c.AbortWithStatusJSON(status, api.Response{Error: apperr.Message(err)})
}

// nonNil makes empty lists render as [] instead of null.
func nonNil(contacts []model.Contact) []model.Contact {
	if contacts == nil {
		return []model.Contact{}
	}
	return contacts
}

// contains returns true if a string is present in a slice.
func contains(slice []string, str string) bool {
	for _, v := range slice {
		if v == str {
			return true
		}
	}
	return false
}
