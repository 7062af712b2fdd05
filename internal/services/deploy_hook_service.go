package services

import (
	"context"
	"net/http"

	"github.com/soof-golan/tix-q/internal/constants"
	"github.com/soof-golan/tix-q/internal/utils"
)

// DeployNotifier pings the static-site build hook when a room is published,
// so the public site picks up the new room. Fire-and-forget: a slow or dead
// hook must never block or fail the publishing request.
type DeployNotifier interface {
	Notify(reason string)
}

type deployHookNotifier struct {
	url        string
	httpClient *http.Client
}

func NewDeployNotifier(url string) DeployNotifier {
	return &deployHookNotifier{
		url:        url,
		httpClient: &http.Client{Timeout: constants.DeployHookTimeout},
	}
}

func (n *deployHookNotifier) Notify(reason string) {
	if n.url == "" {
		utils.Logger.Debug("Deploy hook not configured, skipping")
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), constants.DeployHookTimeout)
		defer cancel()

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, nil)
		if err != nil {
			utils.Logger.WithError(err).Warn("Deploy hook request build failed")
			return
		}
		resp, err := n.httpClient.Do(req)
		if err != nil {
			utils.Logger.WithError(err).Warn("Deploy hook call failed")
			return
		}
		defer resp.Body.Close()
		utils.Logger.WithField("status", resp.StatusCode).Infof("Deploy hook triggered (%s)", reason)
	}()
}
