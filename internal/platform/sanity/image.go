package sanity

import (
	"fmt"
	"strconv"
	"strings"

	cfgpkg "github.com/qybrrlabs/portal/pkg/config"
)

const maxImageWidth = 2000

// ImageRef is the opaque asset reference stored on content documents,
// e.g. {"asset": {"_ref": "image-<id>-<width>x<height>-<ext>"}}.
type ImageRef struct {
	Asset struct {
		Ref string `json:"_ref"`
	} `json:"asset"`
}

// Image is a resolved, renderable image.
type Image struct {
	Src    string `json:"src"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// ImageResolver turns asset references into CDN URLs with intrinsic
// dimensions. It fails closed: any malformed reference resolves to nil
// rather than an error.
type ImageResolver struct {
	projectID string
	dataset   string
}

func NewImageResolver(cfg *cfgpkg.Config) *ImageResolver {
	return &ImageResolver{projectID: cfg.Sanity.ProjectID, dataset: cfg.Sanity.Dataset}
}

func (r *ImageResolver) Resolve(ref *ImageRef) *Image {
	if ref == nil || ref.Asset.Ref == "" {
		return nil
	}

	parts := strings.Split(ref.Asset.Ref, "-")
	if len(parts) != 4 || parts[0] != "image" {
		return nil
	}
	assetID, dims, ext := parts[1], parts[2], parts[3]
	if assetID == "" || ext == "" {
		return nil
	}

	wh := strings.SplitN(dims, "x", 2)
	if len(wh) != 2 {
		return nil
	}
	width, werr := strconv.Atoi(wh[0])
	height, herr := strconv.Atoi(wh[1])
	if werr != nil || herr != nil || width <= 0 || height <= 0 {
		return nil
	}

	renderWidth := width
	if renderWidth > maxImageWidth {
		renderWidth = maxImageWidth
	}
	src := fmt.Sprintf("https://cdn.sanity.io/images/%s/%s/%s-%s.%s?auto=format&w=%d",
		r.projectID, r.dataset, assetID, dims, ext, renderWidth)

	return &Image{Src: src, Width: width, Height: height}
}
