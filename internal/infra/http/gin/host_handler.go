package ginserver

import (
	"errors"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"

	gin "github.com/gin-gonic/gin"

	"pethost/internal/app/commands"
	"pethost/internal/app/dto"
	hostsapp "pethost/internal/app/handlers/hosts"
	"pethost/internal/app/queries"
	domainhosts "pethost/internal/domain/hosts"
)

const maxPhotoBytes = 10 << 20

type HostHandler struct {
	Commands commands.Bus
	Queries  queries.Bus
	Logger   *slog.Logger
}

type addressPayload struct {
	Line1   string  `json:"line1"`
	City    string  `json:"city"`
	Country string  `json:"country"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

type profilePayload struct {
	Title           string             `json:"title"`
	Description     string             `json:"description"`
	Address         addressPayload     `json:"address"`
	MaxPets         int                `json:"max_pets"`
	DailyRateCents  int64              `json:"daily_rate_cents"`
	Currency        string             `json:"currency"`
	SizeMultipliers map[string]float64 `json:"size_multipliers"`
	WeeklyDiscount  float64            `json:"weekly_discount"`
	MonthlyDiscount float64            `json:"monthly_discount"`
}

func (p profilePayload) toInput() hostsapp.ProfileInput {
	return hostsapp.ProfileInput{
		Title:       p.Title,
		Description: p.Description,
		Address: hostsapp.AddressInput{
			Line1:   p.Address.Line1,
			City:    p.Address.City,
			Country: p.Address.Country,
			Lat:     p.Address.Lat,
			Lon:     p.Address.Lon,
		},
		MaxPets:         p.MaxPets,
		DailyRateCents:  p.DailyRateCents,
		Currency:        p.Currency,
		SizeMultipliers: p.SizeMultipliers,
		WeeklyDiscount:  p.WeeklyDiscount,
		MonthlyDiscount: p.MonthlyDiscount,
	}
}

func (h HostHandler) Create(c *gin.Context) {
	user, ok := requireAuth(c)
	if !ok {
		return
	}
	var req profilePayload
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	cmd := hostsapp.CreateHostCommand{
		ActorID:         user.ID,
		Profile:         req.toInput(),
		IdempotencyKeyV: c.GetHeader("Idempotency-Key"),
	}
	result, err := commands.Dispatch[hostsapp.CreateHostCommand, *dto.Host](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h HostHandler) Search(c *gin.Context) {
	params, err := searchParamsFromQuery(c)
	if err != nil {
		badRequest(c, err)
		return
	}
	result, err := queries.Ask[hostsapp.SearchHostsQuery, dto.HostCollection](c.Request.Context(), h.Queries, hostsapp.SearchHostsQuery{Params: params})
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func searchParamsFromQuery(c *gin.Context) (domainhosts.SearchParams, error) {
	var (
		params domainhosts.SearchParams
		err    error
	)
	params.City = c.Query("city")
	params.Sort = domainhosts.SearchSort(c.Query("sort"))
	if params.Verified, err = parseBoolQuery(c.Query("verified")); err != nil {
		return params, err
	}
	if params.SuperHost, err = parseBoolQuery(c.Query("super_host")); err != nil {
		return params, err
	}
	if params.MinRating, _, err = parseFloatQuery(c.Query("min_rating")); err != nil {
		return params, err
	}
	minPrice, err := parseIntQuery(c.Query("price_min"), 0)
	if err != nil {
		return params, err
	}
	maxPrice, err := parseIntQuery(c.Query("price_max"), 0)
	if err != nil {
		return params, err
	}
	params.PriceMinCents, params.PriceMaxCents = int64(minPrice), int64(maxPrice)
	lat, hasLat, err := parseFloatQuery(c.Query("lat"))
	if err != nil {
		return params, err
	}
	lon, hasLon, err := parseFloatQuery(c.Query("lon"))
	if err != nil {
		return params, err
	}
	if params.RadiusKm, _, err = parseFloatQuery(c.Query("radius_km")); err != nil {
		return params, err
	}
	if hasLat && hasLon {
		params.Near = &domainhosts.GeoPoint{Lat: lat, Lon: lon}
	}
	if params.CheckIn, err = parseDate(c.Query("check_in")); err != nil {
		return params, err
	}
	if params.CheckOut, err = parseDate(c.Query("check_out")); err != nil {
		return params, err
	}
	if params.Limit, err = parseIntQuery(c.Query("limit"), 0); err != nil {
		return params, err
	}
	if params.Offset, err = parseIntQuery(c.Query("offset"), 0); err != nil {
		return params, err
	}
	return params, nil
}

func (h HostHandler) Get(c *gin.Context) {
	query := hostsapp.GetHostQuery{HostID: c.Param("id"), ViewerID: viewerID(c)}
	result, err := queries.Ask[hostsapp.GetHostQuery, dto.Host](c.Request.Context(), h.Queries, query)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h HostHandler) Update(c *gin.Context) {
	user, ok := requireAuth(c)
	if !ok {
		return
	}
	var req profilePayload
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	cmd := hostsapp.UpdateHostCommand{ActorID: user.ID, HostID: c.Param("id"), Profile: req.toInput()}
	result, err := commands.Dispatch[hostsapp.UpdateHostCommand, *dto.Host](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h HostHandler) Delete(c *gin.Context) {
	user, ok := requireAuth(c)
	if !ok {
		return
	}
	cmd := hostsapp.DeleteHostCommand{ActorID: user.ID, HostID: c.Param("id")}
	result, err := commands.Dispatch[hostsapp.DeleteHostCommand, *hostsapp.DeleteHostResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type photoPayload struct {
	URL       string `json:"url"`
	Caption   string `json:"caption"`
	IsPrimary bool   `json:"is_primary"`
}

// AddPhoto accepts a JSON body with a URL or a multipart form with a "file" part.
func (h HostHandler) AddPhoto(c *gin.Context) {
	user, ok := requireAuth(c)
	if !ok {
		return
	}
	cmd := hostsapp.AddHostPhotoCommand{ActorID: user.ID, HostID: c.Param("id")}
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxPhotoBytes)
		fileHeader, err := c.FormFile("file")
		if err != nil {
			badRequest(c, err)
			return
		}
		file, err := fileHeader.Open()
		if err != nil {
			badRequest(c, err)
			return
		}
		defer file.Close()
		cmd.Caption = c.PostForm("caption")
		cmd.IsPrimary = c.PostForm("is_primary") == "true"
		cmd.Upload = &hostsapp.PhotoUpload{
			FileName:    filepath.Base(fileHeader.Filename),
			ContentType: fileHeader.Header.Get("Content-Type"),
			Reader:      file,
		}
	} else {
		var req photoPayload
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
		cmd.URL, cmd.Caption, cmd.IsPrimary = req.URL, req.Caption, req.IsPrimary
	}
	if cmd.URL == "" && cmd.Upload == nil {
		badRequest(c, errors.New("url or file is required"))
		return
	}
	result, err := commands.Dispatch[hostsapp.AddHostPhotoCommand, *dto.Host](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h HostHandler) RemovePhoto(c *gin.Context) {
	user, ok := requireAuth(c)
	if !ok {
		return
	}
	cmd := hostsapp.RemoveHostPhotoCommand{ActorID: user.ID, HostID: c.Param("id"), PhotoID: c.Param("photoId")}
	result, err := commands.Dispatch[hostsapp.RemoveHostPhotoCommand, *dto.Host](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h HostHandler) SetPrimaryPhoto(c *gin.Context) {
	user, ok := requireAuth(c)
	if !ok {
		return
	}
	cmd := hostsapp.SetPrimaryPhotoCommand{ActorID: user.ID, HostID: c.Param("id"), PhotoID: c.Param("photoId")}
	result, err := commands.Dispatch[hostsapp.SetPrimaryPhotoCommand, *dto.Host](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

var _ HostHTTP = HostHandler{}
