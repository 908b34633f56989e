package codeforces_service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/sirupsen/logrus"
	"github.com/tcp_snm/pulse/internal/pulse_errors"
)

func (cf *CodeforcesService) Start() {
	cf.logger = logrus.WithFields(
		logrus.Fields{
			"from": "codeforces_service",
		},
	)

	if cf.BaseUrl == "" {
		cf.BaseUrl = DefaultBaseUrl
	}
	parsedUrl, err := url.Parse(strings.TrimRight(cf.BaseUrl, "/"))
	if err != nil {
		panic("cannot parse codeforces base url: " + cf.BaseUrl)
	}
	cf.baseUrl = parsedUrl

	if cf.RequestTimeout <= 0 {
		cf.RequestTimeout = DefaultRequestTimeout
	}
	if cf.MinRequestInterval < 0 {
		cf.MinRequestInterval = 0
	}
	if cf.MaxStandingsLookups <= 0 {
		cf.MaxStandingsLookups = DefaultMaxStandingsLookups
	}
	if cf.HttpClient == nil {
		cf.HttpClient = http.DefaultClient
	}

	cf.contestProblems = expirable.NewLRU[int32, []string](
		contestProblemsCacheSize,
		nil,
		contestProblemsCacheTTL,
	)

	cf.logger.Infof("codeforces service started with base url %v", cf.baseUrl)
}

// Stop releases the result cache when it holds a connection.
func (cf *CodeforcesService) Stop() {
	closer, ok := cf.ResultCache.(io.Closer)
	if !ok {
		return
	}
	if err := closer.Close(); err != nil {
		cf.logger.Errorf("cannot close result cache, %v", err)
		return
	}
	cf.logger.Info("result cache closed")
}

// waits till MinRequestInterval has passed since the previous request
func (cf *CodeforcesService) throttle(ctx context.Context) error {
	cf.throttleLock.Lock()
	defer cf.throttleLock.Unlock()

	wait := cf.MinRequestInterval - time.Since(cf.lastRequest)
	if wait > 0 {
		select {
		case <-time.After(wait):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	cf.lastRequest = time.Now()
	return nil
}

// query calls the given api method and decodes its result into out
func query[T any](
	ctx context.Context,
	cf *CodeforcesService,
	method string,
	params url.Values,
) (T, error) {
	var zero T

	methodUrl := cf.baseUrl.JoinPath(method)
	methodUrl.RawQuery = params.Encode()

	// create a context to avoid indefinite wait
	ctx, cancel := context.WithTimeout(ctx, cf.RequestTimeout)
	defer cancel()

	if err := cf.throttle(ctx); err != nil {
		err = fmt.Errorf("%w, %w", pulse_errors.ErrFetch, pulse_errors.WrapIPCError(err))
		cf.logger.Error(err)
		return zero, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, methodUrl.String(), nil)
	if err != nil {
		err = fmt.Errorf("%w, failed to create http request with ctx: %w", pulse_errors.ErrInternal, err)
		cf.logger.Error(err)
		return zero, err
	}

	res, err := cf.HttpClient.Do(req)
	if err != nil {
		// Error here could be a timeout from the context or a network issue
		err = fmt.Errorf(
			"%w, failed to get response from %v: %w",
			pulse_errors.ErrFetch, method, pulse_errors.WrapIPCError(err),
		)
		cf.logger.Error(err)
		return zero, err
	}
	defer res.Body.Close()
	cf.logger.Debugf("recieved response %v from %v", res.StatusCode, method)

	// codeforces answers failures with a json body as well, so always decode
	var resJson cfEnvelope[T]
	if err = json.NewDecoder(res.Body).Decode(&resJson); err != nil {
		if res.StatusCode == http.StatusTooManyRequests || res.StatusCode == http.StatusServiceUnavailable {
			err = fmt.Errorf("%w, %w, status %v", pulse_errors.ErrFetch, pulse_errors.ErrRateLimited, res.StatusCode)
		} else {
			err = fmt.Errorf(
				"%w, %w, cannot decode response of %v with status %v, %w",
				pulse_errors.ErrFetch,
				pulse_errors.ErrHttpResponse,
				method,
				res.StatusCode,
				err,
			)
		}
		cf.logger.Error(err)
		return zero, err
	}

	if resJson.Status == statusFailed {
		err = classifyFailure(method, resJson.Comment)
		cf.logger.Error(err)
		return zero, err
	} else if resJson.Status != statusOK {
		err = fmt.Errorf(
			"%w, %w, response status of %v is not \"OK\"",
			pulse_errors.ErrFetch,
			pulse_errors.ErrHttpResponse,
			method,
		)
		cf.logger.WithField("status", resJson.Status).Error(err)
		return zero, err
	}

	return resJson.Result, nil
}

func classifyFailure(method, comment string) error {
	lower := strings.ToLower(comment)
	switch {
	case strings.Contains(lower, "not found"):
		return fmt.Errorf("%w, %w, %s", pulse_errors.ErrFetch, pulse_errors.ErrHandleNotFound, comment)
	case strings.Contains(lower, "limit exceeded"):
		return fmt.Errorf("%w, %w, %s", pulse_errors.ErrFetch, pulse_errors.ErrRateLimited, comment)
	default:
		return fmt.Errorf("%w, %v returned FAILED status, %s", pulse_errors.ErrFetch, method, comment)
	}
}
