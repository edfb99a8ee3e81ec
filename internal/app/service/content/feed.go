package content

import (
	"context"
	"fmt"
	"time"

	"github.com/gorilla/feeds"
)

const feedDescriptionLimit = 200

// Feed renders the post list as an RSS 2.0 document.
func (s *Service) Feed(ctx context.Context) (string, error) {
	posts, err := s.Posts(ctx, "")
	if err != nil {
		return "", fmt.Errorf("failed to build feed: %w", err)
	}
	rss, err := s.buildFeed(posts).ToRss()
	if err != nil {
		return "", fmt.Errorf("failed to render feed: %w", err)
	}
	return rss, nil
}

// buildFeed maps posts to feed items in the order given; it never reorders.
func (s *Service) buildFeed(posts []*Post) *feeds.Feed {
	site := s.cfg.Site
	feed := &feeds.Feed{
		Title:       site.Title,
		Link:        &feeds.Link{Href: site.URL},
		Description: site.Description,
		Author:      &feeds.Author{Name: site.AuthorName, Email: site.AuthorEmail},
		Copyright:   fmt.Sprintf("All rights reserved %d, %s", time.Now().Year(), site.AuthorName),
		Created:     time.Now(),
	}

	for _, post := range posts {
		postURL := fmt.Sprintf("%s/blog/%s", site.URL, post.Slug.Current)

		item := &feeds.Item{
			Title:       post.Title,
			Id:          postURL,
			Link:        &feeds.Link{Href: postURL},
			Description: feedDescription(post),
			Content:     post.Body,
			Created:     post.PublishedAt,
		}
		if post.Author != nil {
			item.Author = &feeds.Author{Name: post.Author.Name, Email: post.Author.Email}
		} else {
			item.Author = &feeds.Author{Name: site.AuthorName}
		}
		if img := s.resolver.Resolve(post.MainImage); img != nil {
			item.Enclosure = &feeds.Enclosure{Url: img.Src, Type: "image/*", Length: "0"}
		}
		feed.Items = append(feed.Items, item)
	}
	return feed
}

// feedDescription prefers the excerpt, then a truncated body, then a stock
// line, mirroring what the site renders.
func feedDescription(post *Post) string {
	if post.Excerpt != "" {
		return post.Excerpt
	}
	if post.Body != "" {
		body := []rune(post.Body)
		if len(body) > feedDescriptionLimit {
			return string(body[:feedDescriptionLimit]) + "..."
		}
		return post.Body
	}
	return "No summary available"
}
