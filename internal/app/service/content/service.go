package content

import (
	"context"
	"fmt"
	"time"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/qybrrlabs/portal/internal/platform/sanity"
	cfgpkg "github.com/qybrrlabs/portal/pkg/config"
)

// Querier is the slice of the content provider client used here.
type Querier interface {
	Query(ctx context.Context, groq string, params map[string]string, out interface{}) error
}

type Slug struct {
	Current string `json:"current"`
}

type Author struct {
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	Slug  *Slug  `json:"slug,omitempty"`
}

type Post struct {
	ID          string           `json:"_id"`
	Title       string           `json:"title"`
	Slug        Slug             `json:"slug"`
	MainImage   *sanity.ImageRef `json:"mainImage,omitempty"`
	Author      *Author          `json:"author,omitempty"`
	Categories  []string         `json:"categories,omitempty"`
	PublishedAt time.Time        `json:"publishedAt"`
	Excerpt     string           `json:"excerpt,omitempty"`
	Body        string           `json:"body,omitempty"`
	Image       *sanity.Image    `json:"image,omitempty"`
}

type Category struct {
	ID    string `json:"_id"`
	Title string `json:"title"`
	Slug  *Slug  `json:"slug,omitempty"`
}

const postFields = `{
  _id,
  title,
  slug,
  mainImage,
  publishedAt,
  "excerpt": pt::text(body[0..1]),
  "body": pt::text(body),
  "categories": categories[]->title,
  "author": author->{name, "slug": slug}
}`

var (
	postsQuery      = `*[_type == "post"] | order(publishedAt desc) ` + postFields
	postBySlugQuery = `*[_type == "post" && slug.current == $slug][0] ` + postFields
	categoriesQuery = `*[_type == "category"]{_id, title, "slug": slug}`
)

// Service fetches blog content from the headless provider. Posts come back
// in the provider's publish order; category filtering happens here, on the
// fetched list.
type Service struct {
	client   Querier
	resolver *sanity.ImageResolver
	cfg      *cfgpkg.Config
	log      *zap.SugaredLogger
}

func NewService(client *sanity.Client, resolver *sanity.ImageResolver, cfg *cfgpkg.Config, log *zap.SugaredLogger) *Service {
	return newService(client, resolver, cfg, log)
}

func newService(client Querier, resolver *sanity.ImageResolver, cfg *cfgpkg.Config, log *zap.SugaredLogger) *Service {
	return &Service{client: client, resolver: resolver, cfg: cfg, log: log}
}

// Posts returns published posts, newest first, with main images resolved.
// A non-empty category keeps only posts carrying that category title.
func (s *Service) Posts(ctx context.Context, category string) ([]*Post, error) {
	var posts []*Post
	if err := s.client.Query(ctx, postsQuery, nil, &posts); err != nil {
		return nil, fmt.Errorf("failed to fetch posts: %w", err)
	}
	if category != "" {
		posts = lo.Filter(posts, func(p *Post, _ int) bool {
			return lo.Contains(p.Categories, category)
		})
	}
	for _, p := range posts {
		p.Image = s.resolver.Resolve(p.MainImage)
	}
	return posts, nil
}

// PostBySlug returns the post for slug, or nil when none exists.
func (s *Service) PostBySlug(ctx context.Context, slug string) (*Post, error) {
	var post *Post
	if err := s.client.Query(ctx, postBySlugQuery, map[string]string{"slug": slug}, &post); err != nil {
		return nil, fmt.Errorf("failed to fetch post %q: %w", slug, err)
	}
	if post != nil {
		post.Image = s.resolver.Resolve(post.MainImage)
	}
	return post, nil
}

func (s *Service) Categories(ctx context.Context) ([]*Category, error) {
	var categories []*Category
	if err := s.client.Query(ctx, categoriesQuery, nil, &categories); err != nil {
		return nil, fmt.Errorf("failed to fetch categories: %w", err)
	}
	return categories, nil
}
