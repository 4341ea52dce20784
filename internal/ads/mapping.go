package ads

import (
	"github.com/lib/pq"

	"github.com/adtrail/adtrail/pkg/query"
	"github.com/adtrail/adtrail/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "ads", "a").
	Project("id", "ID").
	Project("html", "HTML").
	Project("political", "Political").
	Project("not_political", "NotPolitical").
	Project("title", "Title").
	Project("message", "Message").
	Project("thumbnail", "Thumbnail").
	Project("created_at", "CreatedAt").
	Project("updated_at", "UpdatedAt").
	Project("lang", "Lang").
	Project("images", "Images").
	Project("impressions", "Impressions").
	Project("political_probability", "PoliticalProbability").
	Project("targeting", "Targeting").
	Project("suppressed", "Suppressed")

var defaultSort = query.SortField{
	Field:      "CreatedAt",
	Descending: true,
}

func scanAd(s repository.Scanner) (Ad, error) {
	var a Ad
	err := s.Scan(
		&a.ID,
		&a.HTML,
		&a.Political,
		&a.NotPolitical,
		&a.Title,
		&a.Message,
		&a.Thumbnail,
		&a.CreatedAt,
		&a.UpdatedAt,
		&a.Lang,
		pq.Array(&a.Images),
		&a.Impressions,
		&a.PoliticalProbability,
		&a.Targeting,
		&a.Suppressed,
	)
	return a, err
}
