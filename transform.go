package storefront

import (
	"errors"
	"net/url"
	"regexp"
	"strings"

	log "github.com/sirupsen/logrus"
)

const (
	vimeoPlayerURL = "https://player.vimeo.com/video/"

	videoImageWidth  = 640
	videoImageHeight = 360
)

var numericSegment = regexp.MustCompile(`^\d+$`)

var errRelativeURL = errors.New("not an absolute url")

// NormalizeVideoURL rewrites a Vimeo share link whose first path segment is a numeric
// video id into the embeddable player URL. Segments are compared in their escaped
// form. Anything else, unparsable input included, is returned unchanged.
func NormalizeVideoURL(raw string) string {
	u, err := url.Parse(raw)
	if err == nil && !u.IsAbs() {
		err = errRelativeURL
	}
	if err != nil {
		log.WithError(err).WithField("url", raw).Warn("could not parse video url")
		return raw
	}

	path := u.EscapedPath()
	if u.Opaque != "" {
		path = u.Opaque
	}

	for _, segment := range strings.Split(path, "/") {
		if segment == "" {
			continue
		}
		if numericSegment.MatchString(segment) {
			return vimeoPlayerURL + segment
		}
		break
	}

	return raw
}

// TransformProduct folds the product videos into the front of its image gallery so
// the gallery can render them as a special kind of image. Products without videos are
// returned as is.
func TransformProduct(p *Product) *Product {
	if p == nil || len(p.Videos) == 0 {
		return p
	}

	out := *p

	videos := make([]Video, len(p.Videos))
	images := make([]Image, 0, len(p.Videos)+len(p.Images))
	for i, v := range p.Videos {
		videos[i] = Video{
			URL:   NormalizeVideoURL(v.URL),
			Title: v.Title,
		}
		if v.Preview != nil {
			videos[i].Preview = &VideoPreview{URL: v.Preview.URL}
		}

		images = append(images, videoAsImage(videos[i]))
	}
	images = append(images, p.Images...)

	out.Videos = videos
	out.Images = images

	return &out
}

func videoAsImage(v Video) Image {
	return Image{
		URL:     v.URL,
		Label:   v.Title,
		Width:   videoImageWidth,
		Height:  videoImageHeight,
		IsVideo: true,
	}
}
