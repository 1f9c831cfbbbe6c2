package meta

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	domainPublish "github.com/AzielCF/daily-post/domains/publish"
)

// InstagramClient drives the media container protocol of an Instagram
// professional account.
type InstagramClient struct {
	graph  *GraphClient
	userID string
	token  TokenFunc
}

func NewInstagramClient(graph *GraphClient, userID string, token TokenFunc) *InstagramClient {
	return &InstagramClient{graph: graph, userID: userID, token: token}
}

func (c *InstagramClient) credentials(ctx context.Context) (string, error) {
	if strings.TrimSpace(c.userID) == "" {
		return "", errors.New("IG_USER_ID is not configured")
	}
	token, err := c.token(ctx)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(token) == "" {
		return "", errors.New("Instagram access token is not configured")
	}
	return token, nil
}

func (c *InstagramClient) createContainer(ctx context.Context, form url.Values) (string, error) {
	token, err := c.credentials(ctx)
	if err != nil {
		return "", err
	}
	form.Set("access_token", token)

	resp, err := c.graph.postForm(ctx, c.userID+"/media", form, instagramFallbackMessage)
	if err != nil {
		return "", err
	}
	if resp.ID == "" {
		return "", errors.New("Instagram media container response did not include an id")
	}
	return resp.ID, nil
}

func (c *InstagramClient) CreateSingle(ctx context.Context, imageURL, caption string) (string, error) {
	form := url.Values{}
	form.Set("image_url", imageURL)
	form.Set("caption", caption)
	return c.createContainer(ctx, form)
}

func (c *InstagramClient) CreateChild(ctx context.Context, imageURL string) (string, error) {
	form := url.Values{}
	form.Set("image_url", imageURL)
	form.Set("is_carousel_item", "true")
	return c.createContainer(ctx, form)
}

func (c *InstagramClient) CreateParent(ctx context.Context, childIDs []string, caption string) (string, error) {
	form := url.Values{}
	form.Set("media_type", "CAROUSEL")
	form.Set("children", strings.Join(childIDs, ","))
	form.Set("caption", caption)
	return c.createContainer(ctx, form)
}

func (c *InstagramClient) PollStatus(ctx context.Context, creationID string) (domainPublish.ContainerState, error) {
	token, err := c.credentials(ctx)
	if err != nil {
		return domainPublish.ContainerState{}, err
	}

	query := url.Values{}
	query.Set("fields", "status_code,status")
	query.Set("access_token", token)

	resp, err := c.graph.get(ctx, creationID, query, instagramFallbackMessage)
	if err != nil {
		return domainPublish.ContainerState{}, err
	}
	return domainPublish.ContainerState{
		StatusCode: strings.ToUpper(strings.TrimSpace(resp.StatusCode)),
		Message:    resp.Status,
	}, nil
}

func (c *InstagramClient) Publish(ctx context.Context, creationID string) (string, error) {
	token, err := c.credentials(ctx)
	if err != nil {
		return "", err
	}

	form := url.Values{}
	form.Set("creation_id", creationID)
	form.Set("access_token", token)

	resp, err := c.graph.postForm(ctx, c.userID+"/media_publish", form, instagramFallbackMessage)
	if err != nil {
		return "", err
	}
	if resp.ID == "" {
		return "", fmt.Errorf("Instagram publish of container %s did not return a media id", creationID)
	}
	return resp.ID, nil
}
