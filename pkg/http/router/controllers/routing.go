package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
	"github.com/julienschmidt/httprouter"
	"github.com/lintang-b-s/wayfinder/pkg/geo"
	helper "github.com/lintang-b-s/wayfinder/pkg/http/router/routerhelper"
	"github.com/lintang-b-s/wayfinder/pkg/indoor"
	"go.uber.org/zap"
)

type routingAPI struct {
	routingService RoutingService
	classifier     IndoorClassifier
	log            *zap.Logger
}

func New(routingService RoutingService, classifier IndoorClassifier, log *zap.Logger) *routingAPI {
	return &routingAPI{
		routingService: routingService,
		classifier:     classifier,
		log:            log,
	}
}

func (api *routingAPI) Routes(group *helper.RouteGroup) {
	group.GET("/computeRoutes", api.computeRoute)
}

// computeRoute godoc
//
//	@Summary		shortest driving route between two coordinates
//	@Param			origin_lat			query	number	true	"origin latitude"
//	@Param			origin_lon			query	number	true	"origin longitude"
//	@Param			destination_lat		query	number	true	"destination latitude"
//	@Param			destination_lon		query	number	true	"destination longitude"
//	@Success		200	{object}	computeRouteResponse
//	@Router			/computeRoutes [get]
func (api *routingAPI) computeRoute(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	var (
		request computeRouteRequest
		err     error
	)

	query := r.URL.Query()

	request.OriginLat, err = strconv.ParseFloat(query.Get("origin_lat"), 64)
	if err != nil {
		api.BadRequestResponse(w, r, errors.New("origin_lat is required and must be a valid float"))
		return
	}
	request.OriginLon, err = strconv.ParseFloat(query.Get("origin_lon"), 64)
	if err != nil {
		api.BadRequestResponse(w, r, errors.New("origin_lon is required and must be a valid float"))
		return
	}
	request.DestinationLat, err = strconv.ParseFloat(query.Get("destination_lat"), 64)
	if err != nil {
		api.BadRequestResponse(w, r, errors.New("destination_lat is required and must be a valid float"))
		return
	}
	request.DestinationLon, err = strconv.ParseFloat(query.Get("destination_lon"), 64)
	if err != nil {
		api.BadRequestResponse(w, r, errors.New("destination_lon is required and must be a valid float"))
		return
	}

	validate := validator.New()
	if err := validate.Struct(request); err != nil {
		english := en.New()
		uni := ut.New(english, english)
		trans, _ := uni.GetTranslator("en")
		_ = enTranslations.RegisterDefaultTranslations(validate, trans)
		vv := translateError(err, trans)
		vvString := []string{}
		for _, v := range vv {
			vvString = append(vvString, v.Error())
		}
		api.BadRequestResponse(w, r, fmt.Errorf("validation error: %v", vvString))
		return
	}

	result, err := api.routingService.ComputeRoute(r.Context(), request.OriginLat, request.OriginLon,
		request.DestinationLat, request.DestinationLon)
	if err != nil {
		api.getStatusCode(w, r, err)
		return
	}

	// optional device signals attach an advisory indoor classification of
	// the origin to the response. it never changes the route.
	classification := api.classifyFromQuery(query, request.OriginLat, request.OriginLon)

	headers := make(http.Header)
	if err := api.writeJSON(w, http.StatusOK,
		envelope{"data": NewComputeRouteResponse(result, classification)}, headers); err != nil {
		api.ServerErrorResponse(w, r, err)
		return
	}
}

func (api *routingAPI) classifyFromQuery(query map[string][]string, lat, lon float64) *indoor.Classification {
	get := func(key string) string {
		if vals := query[key]; len(vals) > 0 {
			return vals[0]
		}
		return ""
	}

	accuracyStr := get("gps_accuracy_m")
	satStr := get("satellite_count")
	wifiCountStr := get("wifi_count")
	wifiRSSIStr := get("wifi_rssi_mean")
	if accuracyStr == "" && satStr == "" && wifiCountStr == "" {
		return nil
	}

	var signals indoor.DeviceSignals
	signals.GPSAccuracyM, _ = strconv.ParseFloat(accuracyStr, 64)
	signals.SatelliteCount, _ = strconv.Atoi(satStr)
	signals.WifiCount, _ = strconv.Atoi(wifiCountStr)
	signals.WifiRSSIMean, _ = strconv.ParseFloat(wifiRSSIStr, 64)

	classification := api.classifier.Classify(geo.NewCoordinate(lat, lon), signals)
	return &classification
}
