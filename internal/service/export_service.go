package service

import (
	"bytes"
	"fmt"

	epub "github.com/go-shiori/go-epub"
	"github.com/inkwell/internal/db"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
	"gorm.io/gorm"
)

// PackageMeta is the input contract of the external packaging format:
// a title/author pair and the rendered HTML body.
type PackageMeta struct {
	Title       string
	Author      string
	HTMLContent string
}

// Packager turns prepared content into an opaque document container.
type Packager interface {
	Package(meta PackageMeta) ([]byte, error)
}

// ExportResult carries the packaged document and its download name.
type ExportResult struct {
	Data        []byte
	Filename    string
	ContentType string
}

// ExportService assembles watermark-stamped document packages for
// downloadable posts.
type ExportService struct {
	db        *gorm.DB
	posts     *PostService
	packager  Packager
	watermark string
	markdown  goldmark.Markdown
	sanitizer *bluemonday.Policy
}

// NewExportService creates an ExportService instance. A nil packager
// falls back to the EPUB implementation.
func NewExportService(gdb *gorm.DB, posts *PostService, packager Packager, watermark string) *ExportService {
	if packager == nil {
		packager = EpubPackager{}
	}
	return &ExportService{
		db:        gdb,
		posts:     posts,
		packager:  packager,
		watermark: watermark,
		markdown: goldmark.New(
			goldmark.WithExtensions(extension.GFM, extension.Linkify, extension.Table),
			goldmark.WithRendererOptions(html.WithHardWraps(), html.WithXHTML()),
		),
		sanitizer: bluemonday.UGCPolicy(),
	}
}

// Export packages the published, downloadable post identified by slug
// and counts the download. The counter is coupled to package delivery,
// not to successful client receipt.
func (s *ExportService) Export(slug string) (*ExportResult, error) {
	var post db.Post
	if err := s.db.Preload("Author").
		Where("slug = ? AND status = ? AND is_downloadable = ?", slug, db.PostStatusPublished, true).
		First(&post).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, notFound("post")
		}
		return nil, err
	}

	if err := s.posts.RecordDownload(post.ID); err != nil {
		return nil, err
	}

	body, err := s.renderBody(&post)
	if err != nil {
		return nil, err
	}

	data, err := s.packager.Package(PackageMeta{
		Title:       post.Title,
		Author:      post.Author.Name,
		HTMLContent: body,
	})
	if err != nil {
		return nil, err
	}

	return &ExportResult{
		Data:        data,
		Filename:    post.Slug + ".epub",
		ContentType: "application/epub+zip",
	}, nil
}

// renderBody converts the markdown body to sanitized HTML and stamps
// the watermark at the top and the bottom of the content.
func (s *ExportService) renderBody(post *db.Post) (string, error) {
	var rendered bytes.Buffer
	if err := s.markdown.Convert([]byte(post.Content), &rendered); err != nil {
		return "", err
	}
	clean := s.sanitizer.SanitizeBytes(rendered.Bytes())

	var b bytes.Buffer
	fmt.Fprintf(&b, `<div style="text-align: right; opacity: 0.3; font-size: 12px; color: #999;">%s</div>`, s.watermark)
	b.WriteString("\n")
	b.Write(clean)
	b.WriteString("\n")
	fmt.Fprintf(&b, `<div style="text-align: center; margin-top: 50px; opacity: 0.5; font-size: 12px; color: #999;">%s</div>`, s.watermark)
	return b.String(), nil
}

// EpubPackager builds EPUB containers through the go-epub library.
type EpubPackager struct{}

// Package implements Packager.
func (EpubPackager) Package(meta PackageMeta) ([]byte, error) {
	book, err := epub.NewEpub(meta.Title)
	if err != nil {
		return nil, err
	}
	book.SetAuthor(meta.Author)

	if _, err := book.AddSection(meta.HTMLContent, meta.Title, "", ""); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if _, err := book.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
