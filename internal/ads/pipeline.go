package ads

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/adtrail/adtrail/pkg/workers"
)

// Fetcher retrieves the bytes behind an image URL.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) ([]byte, string, error)
}

// AssetStore stores image bytes under the canonical address space.
type AssetStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
	Exists(ctx context.Context, key string) (bool, error)
	URL(path string) string
	Host() string
}

// ContentPersister applies a pipeline's content overwrite to the durable record.
type ContentPersister interface {
	UpdateContent(ctx context.Context, id string, update ContentUpdate) error
}

// ContentUpdate carries the canonical URLs and rewritten markup produced by
// one successful pipeline run. A nil Thumbnail leaves the stored thumbnail
// untouched.
type ContentUpdate struct {
	HTML      string
	Title     string
	Message   string
	Thumbnail *string
	Gallery   []string
}

// Pipeline rehomes an ad's embedded images into the asset store and rewrites
// the stored markup to reference only canonical URLs. Runs are detached from
// the submission path: failures are logged and discarded, never surfaced to
// the submitter. The base record stays available even when rehoming fails.
type Pipeline struct {
	fetcher   Fetcher
	store     AssetStore
	persister ContentPersister
	pool      *workers.Pool
	policy    TrustPolicy
	logger    *slog.Logger
	base      context.Context
	fanout    int
}

// NewPipeline creates a Pipeline. Collaborators are injected once here and
// shared across runs; base bounds the lifetime of detached runs. fanout caps
// per-run fetch concurrency. The persister is bound separately because the
// ads repository both owns the pipeline and receives its content writes.
func NewPipeline(
	base context.Context,
	fetcher Fetcher,
	store AssetStore,
	pool *workers.Pool,
	policy TrustPolicy,
	fanout int,
	logger *slog.Logger,
) *Pipeline {
	if fanout < 1 {
		fanout = 1
	}
	return &Pipeline{
		fetcher:   fetcher,
		store:     store,
		pool:      pool,
		policy:    policy,
		logger:    logger.With("system", "pipeline"),
		base:      base,
		fanout:    fanout,
	}
}

// Bind attaches the content persister. Must be called before Launch.
func (p *Pipeline) Bind(persister ContentPersister) {
	p.persister = persister
}

// Launch starts a detached run for the given ad. The caller is never blocked
// on or informed of the outcome. Two concurrent runs for the same id may
// interleave; the later content write wins.
func (p *Pipeline) Launch(ad Ad) {
	go func() {
		log := p.logger.With("ad", ad.ID, "run", uuid.NewString())
		if err := p.run(p.base, ad, log); err != nil {
			log.Warn("image pipeline aborted", "error", err)
			return
		}
		log.Info("images rehomed")
	}()
}

// run executes the staged rehoming for one ad. Everything after the trust
// filter is all-or-nothing: a failed fetch or upload aborts the batch and no
// images are collected for the run, though assets already uploaded are not
// rolled back.
func (p *Pipeline) run(ctx context.Context, ad Ad, log *slog.Logger) error {
	targets := p.resolveTargets(ad, log)

	if err := p.fetchAndStore(ctx, targets, log); err != nil {
		return err
	}

	update, err := rebuildContent(ad, targets, p.store)
	if err != nil {
		return err
	}

	return p.pool.Do(ctx, func() error {
		return p.persister.UpdateContent(ctx, ad.ID, *update)
	})
}

// resolveTargets enumerates the ad's image URLs, drops unparsable and
// untrusted entries, and unwraps redirect indirections. Drops are silent
// per-item decisions, not errors.
func (p *Pipeline) resolveTargets(ad Ad, log *slog.Logger) []*url.URL {
	raw := make([]string, 0, len(ad.Images)+1)
	raw = append(raw, ad.Thumbnail)
	raw = append(raw, ad.Images...)

	targets := make([]*url.URL, 0, len(raw))
	for _, entry := range raw {
		u, err := url.Parse(entry)
		if err != nil {
			continue
		}
		if !p.policy.IsTrustedSource(u) {
			log.Debug("dropping untrusted source", "host", u.Hostname())
			continue
		}
		targets = append(targets, resolveImageURL(u))
	}
	return targets
}

// fetchAndStore uploads every target not already hosted by the asset store.
// Repeat submissions of the same ad re-run the pipeline, so keys already in
// the store are probed and skipped rather than re-fetched. Store calls run on
// the bounded worker pool because the collaborator is synchronous. Any
// failure cancels the batch.
func (p *Pipeline) fetchAndStore(ctx context.Context, targets []*url.URL, log *slog.Logger) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.fanout)

	for _, target := range targets {
		g.Go(func() error {
			if target.Hostname() == p.store.Host() {
				return nil
			}

			key := storageKey(target.Path)

			var stored bool
			err := p.pool.Do(gctx, func() error {
				var err error
				stored, err = p.store.Exists(gctx, key)
				return err
			})
			if err != nil {
				return fmt.Errorf("probe image: %w", err)
			}
			if stored {
				log.Debug("image already stored", "key", key)
				return nil
			}

			body, contentType, err := p.fetcher.Fetch(gctx, target.String())
			if err != nil {
				return fmt.Errorf("fetch image: %w", err)
			}

			return p.pool.Do(gctx, func() error {
				if _, err := p.store.Put(gctx, key, body, contentType); err != nil {
					return fmt.Errorf("store image: %w", err)
				}
				log.Debug("image stored", "key", key)
				return nil
			})
		})
	}

	return g.Wait()
}

// rebuildContent recombines the original ad with the collected canonical set:
// new thumbnail and gallery by URL-path matching, markup with every image
// source rewritten to its canonical URL or blanked (never a dead or untrusted
// reference), and refreshed title and message re-extracted from the rewritten
// document. The persisted fragment is the first top-level block container.
func rebuildContent(ad Ad, collected []*url.URL, store AssetStore) (*ContentUpdate, error) {
	var thumbnail *string
	thumbPath := ""
	for _, u := range collected {
		if strings.Contains(ad.Thumbnail, u.Path) {
			canonical := store.URL(u.Path)
			thumbnail = &canonical
			thumbPath = u.Path
			break
		}
	}

	gallery := make([]string, 0, len(collected))
	for _, u := range collected {
		if thumbnail != nil && u.Path == thumbPath {
			continue
		}
		for _, orig := range ad.Images {
			if strings.Contains(orig, u.Path) {
				gallery = append(gallery, store.URL(u.Path))
				break
			}
		}
	}

	// The document is parsed fresh from the stored markup; no tree is
	// shared with other stages.
	doc, err := parseDocument(ad.HTML)
	if err != nil {
		return nil, err
	}

	doc.Find("img").Each(func(_ int, s *goquery.Selection) {
		src, ok := s.Attr("src")
		if !ok {
			return
		}
		u, err := url.Parse(src)
		if err != nil {
			return
		}
		resolved := resolveImageURL(u)
		for _, c := range collected {
			if c.Path == resolved.Path {
				s.SetAttr("src", store.URL(c.Path))
				return
			}
		}
		s.SetAttr("src", "")
	})

	title, err := extractTitle(doc)
	if err != nil {
		return nil, err
	}
	message, err := extractMessage(doc)
	if err != nil {
		return nil, err
	}

	block := doc.Find("div").First()
	if block.Length() == 0 {
		return nil, extractionErr("container")
	}
	html, err := goquery.OuterHtml(block)
	if err != nil {
		return nil, err
	}

	return &ContentUpdate{
		HTML:      html,
		Title:     title,
		Message:   message,
		Thumbnail: thumbnail,
		Gallery:   gallery,
	}, nil
}

func storageKey(path string) string {
	return strings.TrimPrefix(path, "/")
}
