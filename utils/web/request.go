package web

import (
	"net/http"
	"time"

	"github.com/imroc/req"
	"github.com/jpillora/backoff"
	"github.com/l3uddz/iconkit/logger"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"go.uber.org/ratelimit"
)

/* Const */

type HTTPMethod string

const (
	GET    HTTPMethod = http.MethodGet
	POST   HTTPMethod = http.MethodPost
	PUT    HTTPMethod = http.MethodPut
	DELETE HTTPMethod = http.MethodDelete
)

/* Var */

var (
	log = logger.GetLogger("web")
)

/* Struct */

// Retry is passed to GetResponse alongside the request inputs to retry failed requests.
type Retry struct {
	backoff.Backoff
	MaxAttempts          float64
	RetryableStatusCodes []int
}

/* Public */

// GetResponse sends a request with a timeout in seconds. Besides the usual req inputs (headers,
// params, bodies, contexts) v may hold a *Retry and a ratelimit.Limiter.
func GetResponse(method HTTPMethod, requestUrl string, timeout int, v ...interface{}) (*req.Resp, error) {
	// prepare client
	client := req.New()
	client.SetTimeout(time.Duration(timeout) * time.Second)

	// split inputs
	var retry Retry
	var rl ratelimit.Limiter
	inputs := make([]interface{}, 0, len(v))

	for _, vv := range v {
		switch vT := vv.(type) {
		case *Retry:
			retry = *vT
		case Retry:
			retry = vT
		case ratelimit.Limiter:
			rl = vT
		default:
			inputs = append(inputs, vT)
		}
	}

	for {
		if rl != nil {
			rl.Take()
		}

		// send request
		resp, err := client.Do(string(method), requestUrl, inputs...)
		if err != nil {
			if !retry.shouldRetry() {
				return nil, err
			}

			d := retry.Duration()
			log.WithError(err).WithFields(logrus.Fields{
				"url":     requestUrl,
				"attempt": retry.Attempt(),
				"wait":    d,
			}).Warn("Request failed, retrying...")
			time.Sleep(d)
			continue
		}

		// retryable status?
		status := resp.Response().StatusCode
		if retry.retryableStatus(status) && retry.shouldRetry() {
			DrainAndClose(resp.Response().Body)

			d := retry.Duration()
			log.WithFields(logrus.Fields{
				"url":     requestUrl,
				"status":  status,
				"attempt": retry.Attempt(),
				"wait":    d,
			}).Warn("Retryable response status, retrying...")
			time.Sleep(d)
			continue
		}

		log.WithFields(logrus.Fields{
			"url":    requestUrl,
			"method": method,
			"status": status,
		}).Trace("Request sent")
		return resp, nil
	}
}

// StatusError describes an unexpected response.
func StatusError(what string, resp *req.Resp) error {
	return errors.Errorf("failed retrieving valid %s response: %s", what, resp.Response().Status)
}

/* Private */

func (r *Retry) shouldRetry() bool {
	// Attempt() is read before Duration() advances it
	return r.MaxAttempts > 0 && r.Attempt()+1 < r.MaxAttempts
}

func (r *Retry) retryableStatus(status int) bool {
	for _, code := range r.RetryableStatusCodes {
		if code == status {
			return true
		}
	}
	return false
}
