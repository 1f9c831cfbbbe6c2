package meta

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// FacebookClient publishes to a Facebook Page feed.
type FacebookClient struct {
	graph  *GraphClient
	pageID string
	token  TokenFunc
}

func NewFacebookClient(graph *GraphClient, pageID string, token TokenFunc) *FacebookClient {
	return &FacebookClient{graph: graph, pageID: pageID, token: token}
}

func (c *FacebookClient) credentials(ctx context.Context) (string, error) {
	if strings.TrimSpace(c.pageID) == "" {
		return "", errors.New("FB_PAGE_ID is not configured")
	}
	token, err := c.token(ctx)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(token) == "" {
		return "", errors.New("Facebook access token is not configured")
	}
	return token, nil
}

func (c *FacebookClient) PublishSingle(ctx context.Context, imageURL, caption string) (string, error) {
	token, err := c.credentials(ctx)
	if err != nil {
		return "", err
	}

	form := url.Values{}
	form.Set("url", imageURL)
	form.Set("caption", caption)
	form.Set("published", "true")
	form.Set("access_token", token)

	resp, err := c.graph.postForm(ctx, c.pageID+"/photos", form, facebookFallbackMessage)
	if err != nil {
		return "", err
	}
	if resp.PostID != "" {
		return resp.PostID, nil
	}
	if resp.ID != "" {
		return resp.ID, nil
	}
	return "", errors.New("Facebook photo response did not include a post id")
}

func (c *FacebookClient) UploadUnpublished(ctx context.Context, imageURL string) (string, error) {
	token, err := c.credentials(ctx)
	if err != nil {
		return "", err
	}

	form := url.Values{}
	form.Set("url", imageURL)
	form.Set("published", "false")
	form.Set("access_token", token)

	resp, err := c.graph.postForm(ctx, c.pageID+"/photos", form, facebookFallbackMessage)
	if err != nil {
		return "", err
	}
	if resp.ID == "" {
		return "", errors.New("Facebook photo upload did not include an id")
	}
	return resp.ID, nil
}

func (c *FacebookClient) PublishFeed(ctx context.Context, attachmentIDs []string, caption string) (string, error) {
	token, err := c.credentials(ctx)
	if err != nil {
		return "", err
	}

	form := url.Values{}
	form.Set("message", caption)
	form.Set("access_token", token)
	for i, id := range attachmentIDs {
		media, err := json.Marshal(map[string]string{"media_fbid": id})
		if err != nil {
			return "", err
		}
		form.Set(fmt.Sprintf("attached_media[%d]", i), string(media))
	}

	resp, err := c.graph.postForm(ctx, c.pageID+"/feed", form, facebookFallbackMessage)
	if err != nil {
		return "", err
	}
	if resp.ID == "" {
		return "", errors.New("Facebook feed response did not include a post id")
	}
	return resp.ID, nil
}
