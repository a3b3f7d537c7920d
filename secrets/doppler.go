package secrets

import (
	"context"
	"strconv"
	"time"

	"github.com/imroc/req"
	"github.com/jpillora/backoff"
	"github.com/l3uddz/iconkit/logger"
	"github.com/l3uddz/iconkit/utils/web"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"go.uber.org/ratelimit"
)

const DefaultDopplerURL = "https://api.doppler.com"

var (
	dopplerDefaultTimeout = 30
	dopplerDefaultRetry   = web.Retry{
		MaxAttempts: 5,
		RetryableStatusCodes: []int{
			429,
			502,
			503,
			504,
		},
		Backoff: backoff.Backoff{
			Jitter: true,
			Min:    1 * time.Second,
			Max:    5 * time.Second,
		},
	}
)

/* Struct */

type DopplerConfig struct {
	URL     string
	Token   string
	Project string
	Config  string
}

// Doppler writes secrets to a Doppler config.
type Doppler struct {
	log        *logrus.Entry
	apiUrl     string
	project    string
	config     string
	reqHeaders req.Header
	limiter    ratelimit.Limiter
	retry      web.Retry
	timeout    int
}

type dopplerUpdateRequest struct {
	Project string            `json:"project"`
	Config  string            `json:"config"`
	Secrets map[string]string `json:"secrets"`
}

/* Initializer */

func NewDoppler(c DopplerConfig, limiters *web.RateLimiters) *Doppler {
	apiUrl := c.URL
	if apiUrl == "" {
		apiUrl = DefaultDopplerURL
	}

	return &Doppler{
		log:     logger.GetLogger("doppler"),
		apiUrl:  apiUrl,
		project: c.Project,
		config:  c.Config,
		reqHeaders: req.Header{
			"Authorization": "Bearer " + c.Token,
			"Accept":        "application/json",
		},
		limiter: limiters.Get("doppler", 5),
		retry:   dopplerDefaultRetry,
		timeout: dopplerDefaultTimeout,
	}
}

/* Interface Implements */

func (d *Doppler) Set(ctx context.Context, name string, value string) error {
	// send request
	retry := d.retry
	resp, err := web.GetResponse(web.POST, web.JoinURL(d.apiUrl, "/v3/configs/config/secrets"), d.timeout,
		ctx, d.reqHeaders, req.BodyJSON(&dopplerUpdateRequest{
			Project: d.project,
			Config:  d.config,
			Secrets: map[string]string{name: value},
		}), d.limiter, &retry)
	if err != nil {
		return errors.WithMessage(err, "failed retrieving update secrets api response")
	}
	defer web.DrainAndClose(resp.Response().Body)

	// validate response
	if resp.Response().StatusCode != 200 {
		return web.StatusError("update secrets api", resp)
	}

	d.log.WithFields(logrus.Fields{
		"project": d.project,
		"config":  d.config,
		"secret":  name,
	}).Debug("Updated secret")
	return nil
}

/* Public */

// SetInt is a convenience for numeric secrets such as the total icon count.
func SetInt(ctx context.Context, s Interface, name string, value int64) error {
	return s.Set(ctx, name, strconv.FormatInt(value, 10))
}
