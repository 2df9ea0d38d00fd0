package provider

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// RawArticle is a headline as published by the news feed, before sentiment
// tagging.
type RawArticle struct {
	Title       string
	Publisher   string
	Link        string
	PublishedAt time.Time
}

// RSSProvider reads per-symbol headlines from the Yahoo Finance RSS feed.
type RSSProvider struct {
	client  *http.Client
	feedURL string
	tracer  trace.Tracer
	limiter *RateLimiter
}

func NewRSSProvider(feedURL string, timeout time.Duration, tracer trace.Tracer) *RSSProvider {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &RSSProvider{
		client:  &http.Client{Timeout: timeout},
		feedURL: feedURL,
		tracer:  tracer,
		limiter: NewRateLimiter(5, 500*time.Millisecond),
	}
}

// FetchNews returns up to limit headlines for symbol in feed order.
func (p *RSSProvider) FetchNews(ctx context.Context, symbol string, limit int) ([]RawArticle, error) {
	ctx, span := p.tracer.Start(ctx, "rss.fetch-news")
	defer span.End()
	span.SetAttributes(attribute.String("symbol", symbol))

	if limit <= 0 {
		limit = 10
	}
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	q := url.Values{}
	q.Set("s", symbol)
	q.Set("region", "US")
	q.Set("lang", "en-US")
	body, err := doGet(ctx, p.client, p.feedURL+"?"+q.Encode(), "application/rss+xml, application/xml, text/xml")
	if err != nil {
		return nil, fmt.Errorf("fetch news for %s: %w", symbol, err)
	}

	var rss struct {
		Channel struct {
			Title string `xml:"title"`
			Items []struct {
				Title   string `xml:"title"`
				Link    string `xml:"link"`
				PubDate string `xml:"pubDate"`
				Source  string `xml:"source"`
				Creator string `xml:"creator"`
			} `xml:"item"`
		} `xml:"channel"`
	}
	if err := xml.Unmarshal(body, &rss); err != nil {
		return nil, fmt.Errorf("decode rss payload: %w: %w", ErrInvalidPayload, err)
	}

	articles := make([]RawArticle, 0, min(limit, len(rss.Channel.Items)))
	for _, row := range rss.Channel.Items {
		if len(articles) >= limit {
			break
		}
		title := sanitizeText(row.Title, 300)
		if title == "" {
			continue
		}
		publisher := sanitizeText(row.Source, 120)
		if publisher == "" {
			publisher = sanitizeText(row.Creator, 120)
		}
		if publisher == "" {
			publisher = "Unknown"
		}
		articles = append(articles, RawArticle{
			Title:       title,
			Publisher:   publisher,
			Link:        sanitizeText(row.Link, 500),
			PublishedAt: parseRSSDate(row.PubDate),
		})
	}
	span.SetAttributes(attribute.Int("articles", len(articles)))
	return articles, nil
}

func parseRSSDate(v string) time.Time {
	v = strings.TrimSpace(v)
	if v == "" {
		return time.Time{}
	}
	layouts := []string{time.RFC1123Z, time.RFC1123, time.RFC822Z, time.RFC822, time.RFC3339}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}
