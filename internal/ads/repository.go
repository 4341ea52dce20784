package ads

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/lib/pq"

	"github.com/adtrail/adtrail/pkg/pagination"
	"github.com/adtrail/adtrail/pkg/query"
	"github.com/adtrail/adtrail/pkg/repository"
)

// Read-path visibility gate: ads only surface once the externally computed
// political probability clears this threshold.
const probabilityThreshold = 0.80

// germanLang selects the German text-search configuration; every other
// language uses the default (English) configuration.
const germanLang = "de-DE"

const upsertQuery = `
	INSERT INTO ads (id, html, political, not_political, title, message, thumbnail, lang, images, impressions, targeting)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	ON CONFLICT (id) DO UPDATE SET
		political = ads.political + EXCLUDED.political,
		not_political = ads.not_political + EXCLUDED.not_political,
		impressions = ads.impressions + EXCLUDED.impressions,
		updated_at = now()
	RETURNING id, html, political, not_political, title, message, thumbnail, created_at, updated_at, lang, images, impressions, political_probability, targeting, suppressed`

const updateContentQuery = `
	UPDATE ads SET
		html = $2,
		title = $3,
		message = $4,
		thumbnail = COALESCE($5, thumbnail),
		images = $6
	WHERE id = $1`

type repo struct {
	db         *sql.DB
	pipeline   *Pipeline
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates an ad repository implementing the System interface.
func New(
	db *sql.DB,
	pipeline *Pipeline,
	logger *slog.Logger,
	pagination pagination.Config,
) System {
	return &repo{
		db:         db,
		pipeline:   pipeline,
		logger:     logger.With("system", "ads"),
		pagination: pagination,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger)
}

// Submit extracts a candidate from the submission, merges it into the durable
// record, applies the targeting set-once rule, and launches the detached image
// pipeline against the persisted record. The pipeline outcome is never
// surfaced to the caller.
func (r *repo) Submit(ctx context.Context, sub Submission, lang string) (*Ad, error) {
	cand, err := NewCandidate(sub, lang)
	if err != nil {
		return nil, err
	}

	ad, err := r.upsert(ctx, cand)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	if cand.Targeting != nil && *cand.Targeting != "" && ad.Targeting == nil {
		if err := r.setTargeting(ctx, ad.ID, *cand.Targeting); err != nil {
			return nil, err
		}
	}

	r.logger.Info("ad saved", "ad", ad.ID)
	r.pipeline.Launch(*ad)

	return ad, nil
}

// upsert performs the atomic counter-merging insert. On conflict only the
// counters and updated_at change; content fields belong to the pipeline.
func (r *repo) upsert(ctx context.Context, cand *Candidate) (*Ad, error) {
	args := []any{
		cand.ID,
		cand.HTML,
		cand.Political,
		cand.NotPolitical,
		cand.Content.Title,
		cand.Content.Message,
		cand.Content.Thumbnail,
		cand.Lang,
		pq.Array(cand.Content.Gallery),
		cand.Impressions,
		cand.Targeting,
	}

	ad, err := repository.QueryOne(ctx, r.db, upsertQuery, args, scanAd)
	if err != nil {
		return nil, fmt.Errorf("upsert ad: %w", err)
	}
	return &ad, nil
}

// setTargeting applies the first-write-wins targeting update. The WHERE
// clause re-checks emptiness so concurrent submissions cannot overwrite an
// already-set value.
func (r *repo) setTargeting(ctx context.Context, id, targeting string) error {
	_, err := repository.ExecAffected(
		ctx, r.db,
		"UPDATE ads SET targeting = $2 WHERE id = $1 AND (targeting IS NULL OR targeting = '')",
		id, targeting,
	)
	if err != nil {
		return fmt.Errorf("set targeting: %w", err)
	}
	return nil
}

// UpdateContent applies a pipeline run's content overwrite. A nil thumbnail
// in the update leaves the stored thumbnail untouched.
func (r *repo) UpdateContent(ctx context.Context, id string, update ContentUpdate) error {
	err := repository.ExecExpectOne(
		ctx, r.db, updateContentQuery,
		id,
		update.HTML,
		update.Title,
		update.Message,
		update.Thumbnail,
		pq.Array(update.Gallery),
	)
	if err != nil {
		return fmt.Errorf("update ad content %s: %w", id, repository.MapError(err, ErrNotFound, ErrDuplicate))
	}
	return nil
}

// Suppress hides the ad from read queries without deleting it. Idempotent;
// suppression is never reversed by any operation.
func (r *repo) Suppress(ctx context.Context, id string) error {
	err := repository.ExecExpectOne(
		ctx, r.db,
		"UPDATE ads SET suppressed = true WHERE id = $1",
		id,
	)
	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Warn("ad suppressed", "ad", id)
	return nil
}

// Search returns one page of visible ads for the language. With a search term
// the language's text-search configuration filters and ranks results;
// relevance takes precedence over recency, recency breaks ties. Without a
// term, recency orders the page.
func (r *repo) Search(ctx context.Context, lang string, page pagination.PageRequest) ([]Ad, error) {
	q, args := buildSearchQuery(lang, page, r.pagination)

	ads, err := repository.QueryMany(ctx, r.db, q, args, scanAd)
	if err != nil {
		return nil, fmt.Errorf("search ads: %w", err)
	}
	return ads, nil
}

// Find returns a single ad by id regardless of suppression; it backs the
// admin surface, not the public read path.
func (r *repo) Find(ctx context.Context, id string) (*Ad, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	ad, err := repository.QueryOne(ctx, r.db, q, args, scanAd)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &ad, nil
}

// buildSearchQuery assembles the read query. The text-search primitives are
// immutable SQL wrapper functions created by the migrations so the planner
// can use their GIN expression indexes.
func buildSearchQuery(lang string, page pagination.PageRequest, cfg pagination.Config) (string, []any) {
	qb := query.NewBuilder(projection, defaultSort).
		WhereEquals("Lang", lang).
		WhereGreaterThan("PoliticalProbability", probabilityThreshold).
		WhereEquals("Suppressed", false)

	if page.Search != nil && *page.Search != "" {
		vector, tsquery := textSearchFunctions(lang)
		qb.Where(
			fmt.Sprintf("%s(a.html) @@ %s($%%d)", vector, tsquery),
			*page.Search,
		)
		qb.OrderByExpression(
			fmt.Sprintf("ts_rank(%s(a.html), %s($%%d)) DESC", vector, tsquery),
			*page.Search,
		)
	}

	return qb.BuildLimit(cfg.PageSize, page.Offset(cfg))
}

func textSearchFunctions(lang string) (vector, tsquery string) {
	if lang == germanLang {
		return "to_germantsvector", "to_germantsquery"
	}
	return "to_englishtsvector", "to_englishtsquery"
}
