package api

import (
	"github.com/adtrail/adtrail/pkg/openapi"
)

// buildSpec describes the HTTP surface for API reference tooling.
func buildSpec(cfg *openapi.Config, basePath, version string) *openapi.Spec {
	spec := openapi.NewSpec(cfg.Title, version)
	spec.SetDescription(cfg.Description)
	spec.AddServer(basePath)

	spec.Components.AddSchemas(map[string]*openapi.Schema{
		"Submission": {
			Type:     "object",
			Required: []string{"id", "html"},
			Properties: map[string]*openapi.Schema{
				"id":        {Type: "string", Description: "Stable ad identifier assigned by the collector"},
				"html":      {Type: "string", Description: "Raw ad markup as observed"},
				"political": {Type: "boolean", Description: "Observer's political rating; omitted for a bare impression"},
				"targeting": {Type: "string", Description: "Targeting disclosure markup, recorded once"},
			},
		},
		"Ad": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"id":                    {Type: "string"},
				"html":                  {Type: "string", Description: "Stored ad markup, rewritten to canonical image URLs"},
				"political":             {Type: "integer", Description: "Count of political ratings"},
				"not_political":         {Type: "integer", Description: "Count of not-political ratings"},
				"title":                 {Type: "string"},
				"message":               {Type: "string"},
				"thumbnail":             {Type: "string"},
				"created_at":            {Type: "string", Format: "date-time"},
				"updated_at":            {Type: "string", Format: "date-time"},
				"lang":                  {Type: "string", Example: "en-US"},
				"images":                {Type: "array", Items: &openapi.Schema{Type: "string"}},
				"impressions":           {Type: "integer"},
				"political_probability": {Type: "number", Description: "Externally computed classifier score"},
				"targeting":             {Type: "string"},
			},
		},
		"AssetInfo": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"key":            {Type: "string"},
				"url":            {Type: "string"},
				"content_type":   {Type: "string"},
				"content_length": {Type: "integer"},
				"last_modified":  {Type: "string", Format: "date-time"},
			},
		},
		"AssetList": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"assets":      {Type: "array", Items: openapi.SchemaRef("AssetInfo")},
				"next_marker": {Type: "string"},
			},
		},
	})

	spec.Paths["/ads"] = &openapi.PathItem{
		Post: &openapi.Operation{
			Summary:     "Submit an ad observation",
			Description: "Ingests one observation, merging rating counters into the durable record. The record's language is negotiated from Accept-Language.",
			Tags:        []string{"ads"},
			RequestBody: openapi.RequestBodyJSON("Submission", true),
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Merged ad record", "Ad"),
				400: openapi.ResponseRef("BadRequest"),
			},
		},
		Get: &openapi.Operation{
			Summary:     "Search visible ads",
			Description: "Returns one page of unsuppressed, probability-gated ads for a language, optionally filtered and ranked by full-text search.",
			Tags:        []string{"ads"},
			Parameters: []*openapi.Parameter{
				openapi.QueryParam("lang", "string", "Language to query; defaults from Accept-Language", false),
				openapi.QueryParam("search", "string", "Full-text search query", false),
				openapi.QueryParam("page", "integer", "Page number (0-indexed)", false),
			},
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("One page of ads", "Ad"),
			},
		},
	}

	spec.Paths["/ads/{id}"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary:    "Find an ad by id",
			Tags:       []string{"ads"},
			Parameters: []*openapi.Parameter{openapi.PathParam("id", "Ad identifier")},
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Ad record", "Ad"),
				404: openapi.ResponseRef("NotFound"),
			},
		},
	}

	spec.Paths["/ads/{id}/suppress"] = &openapi.PathItem{
		Post: &openapi.Operation{
			Summary:     "Suppress an ad",
			Description: "Hides the ad from the read path without deleting it. Idempotent and never reversed.",
			Tags:        []string{"ads"},
			Parameters:  []*openapi.Parameter{openapi.PathParam("id", "Ad identifier")},
			Responses: map[int]*openapi.Response{
				200: {Description: "Ad suppressed"},
				404: openapi.ResponseRef("NotFound"),
			},
		},
	}

	spec.Paths["/assets"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary: "List stored assets",
			Tags:    []string{"assets"},
			Parameters: []*openapi.Parameter{
				openapi.QueryParam("prefix", "string", "Key prefix filter", false),
				openapi.QueryParam("marker", "string", "Continuation marker from a previous page", false),
				openapi.QueryParam("max_results", "integer", "Page size cap", false),
			},
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("One page of assets", "AssetList"),
				400: openapi.ResponseRef("BadRequest"),
			},
		},
	}

	spec.Paths["/assets/{key}"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary:    "Find asset metadata",
			Tags:       []string{"assets"},
			Parameters: []*openapi.Parameter{openapi.PathParam("key", "Asset storage key")},
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Asset metadata", "AssetInfo"),
				404: openapi.ResponseRef("NotFound"),
			},
		},
	}

	spec.Paths["/assets/download/{key}"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary:    "Download an asset",
			Tags:       []string{"assets"},
			Parameters: []*openapi.Parameter{openapi.PathParam("key", "Asset storage key")},
			Responses: map[int]*openapi.Response{
				200: {Description: "Asset bytes"},
				404: openapi.ResponseRef("NotFound"),
			},
		},
	}

	return spec
}
