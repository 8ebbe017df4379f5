// Package analytics records page-view events and computes the per-blog
// aggregates shown on the analytics dashboard.
package analytics

import (
	"errors"
	"sort"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/inkpress/inkpress/internal/db/models"
)

// DefaultWindowDays is the trailing window used for recent views, popular
// posts and the daily series.
const DefaultWindowDays = 30

// PopularPostLimit caps the popular-post ranking.
const PopularPostLimit = 5

var (
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// Visitor captures the request attributes stored with each event.
type Visitor struct {
	IP        string
	UserAgent string
	Referrer  string
}

// PopularPost is one entry of the popular-post ranking.
type PopularPost struct {
	PostID string `json:"post_id"`
	Title  string `json:"title"`
	Slug   string `json:"slug"`
	Views  int    `json:"views"`
}

// Summary holds the headline numbers of a blog's analytics dashboard.
type Summary struct {
	TotalViews   int           `json:"total_views"`
	RecentViews  int           `json:"recent_views"`
	PopularPosts []PopularPost `json:"popular_posts"`
	// Placeholder marks demo data served while the analytics table is not
	// provisioned yet. Dashboards render it with a setup hint instead of an
	// empty widget.
	Placeholder bool `json:"placeholder"`
}

// Provisioned probes whether the analytics table exists.
func Provisioned(db *gorm.DB) bool {
	if db == nil {
		return false
	}

	return db.Migrator().HasTable(&models.AnalyticsEvent{})
}

// Record appends one page-view event. Recording is fire-and-forget: every
// failure, including a missing analytics table, is logged and swallowed so
// a page render never fails on tracking.
func Record(db *gorm.DB, blogID string, postID *string, pageType models.PageType, visitor Visitor) {
	if db == nil {
		log.Error().Msg("analytics: nil database, view dropped")
		return
	}

	if !Provisioned(db) {
		log.Debug().Str("blog_id", blogID).Msg("analytics not provisioned, view dropped")
		return
	}

	event := models.AnalyticsEvent{
		BlogID:    blogID,
		PostID:    postID,
		PageType:  pageType,
		VisitorIP: visitor.IP,
		UserAgent: visitor.UserAgent,
		Referrer:  visitor.Referrer,
	}

	if err := db.Create(&event).Error; err != nil {
		log.Error().Err(err).Str("blog_id", blogID).Msg("failed to record page view")
	}
}

// ForBlog retrieves all events of a blog within the trailing window, newest
// first.
func ForBlog(db *gorm.DB, blogID string, days int) ([]models.AnalyticsEvent, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	if days <= 0 {
		days = DefaultWindowDays
	}

	if !Provisioned(db) {
		return []models.AnalyticsEvent{}, nil
	}

	cutoff := time.Now().AddDate(0, 0, -days)

	var events []models.AnalyticsEvent
	result := db.Where("blog_id = ? AND created_at >= ?", blogID, cutoff).
		Order("created_at DESC").
		Find(&events)
	if result.Error != nil {
		return nil, result.Error
	}

	return events, nil
}

// ForPost retrieves all events of a single post within the trailing window,
// newest first.
func ForPost(db *gorm.DB, postID string, days int) ([]models.AnalyticsEvent, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	if days <= 0 {
		days = DefaultWindowDays
	}

	if !Provisioned(db) {
		return []models.AnalyticsEvent{}, nil
	}

	cutoff := time.Now().AddDate(0, 0, -days)

	var events []models.AnalyticsEvent
	result := db.Where("post_id = ? AND created_at >= ?", postID, cutoff).
		Order("created_at DESC").
		Find(&events)
	if result.Error != nil {
		return nil, result.Error
	}

	return events, nil
}

// GetSummary computes total views, trailing 30-day views and the top 5
// posts by recent views. View counts are grouped by post id first and only
// then resolved against the posts table, so a post deleted after being
// viewed silently drops out of the ranking.
//
// While the analytics table is not provisioned a labeled placeholder
// summary is returned so the dashboard never renders empty during setup.
func GetSummary(db *gorm.DB, blogID string) (*Summary, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	if !Provisioned(db) {
		return placeholderSummary(), nil
	}

	var total int64
	if err := db.Model(&models.AnalyticsEvent{}).
		Where("blog_id = ?", blogID).
		Count(&total).Error; err != nil {
		return nil, err
	}

	cutoff := time.Now().AddDate(0, 0, -DefaultWindowDays)

	var recent int64
	if err := db.Model(&models.AnalyticsEvent{}).
		Where("blog_id = ? AND created_at >= ?", blogID, cutoff).
		Count(&recent).Error; err != nil {
		return nil, err
	}

	var postEvents []models.AnalyticsEvent
	if err := db.Select("post_id", "created_at").
		Where("blog_id = ? AND post_id IS NOT NULL AND created_at >= ?", blogID, cutoff).
		Find(&postEvents).Error; err != nil {
		return nil, err
	}

	return &Summary{
		TotalViews:   int(total),
		RecentViews:  int(recent),
		PopularPosts: rankPosts(db, postEvents),
	}, nil
}

// viewTally accumulates per-post counts before resolution.
type viewTally struct {
	views      int
	latestView time.Time
}

// rankPosts groups events by post id, ranks them and resolves titles and
// slugs against the current post rows. Ties on the view count break by most
// recent view, then by post id.
func rankPosts(db *gorm.DB, events []models.AnalyticsEvent) []PopularPost {
	tallies := make(map[string]*viewTally)

	for _, e := range events {
		if e.PostID == nil {
			continue
		}

		t, ok := tallies[*e.PostID]
		if !ok {
			t = &viewTally{}
			tallies[*e.PostID] = t
		}

		t.views++
		if e.CreatedAt.After(t.latestView) {
			t.latestView = e.CreatedAt
		}
	}

	if len(tallies) == 0 {
		return []PopularPost{}
	}

	ids := make([]string, 0, len(tallies))
	for id := range tallies {
		ids = append(ids, id)
	}

	var posts []models.Post
	if err := db.Select("id", "title", "slug").Where("id IN ?", ids).Find(&posts).Error; err != nil {
		log.Error().Err(err).Msg("failed to resolve popular posts")
		return []PopularPost{}
	}

	ranked := make([]PopularPost, 0, len(posts))
	for _, p := range posts {
		t := tallies[p.ID]
		ranked = append(ranked, PopularPost{
			PostID: p.ID,
			Title:  p.Title,
			Slug:   p.Slug,
			Views:  t.views,
		})
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Views != ranked[j].Views {
			return ranked[i].Views > ranked[j].Views
		}

		ti := tallies[ranked[i].PostID].latestView
		tj := tallies[ranked[j].PostID].latestView
		if !ti.Equal(tj) {
			return ti.After(tj)
		}

		return ranked[i].PostID < ranked[j].PostID
	})

	if len(ranked) > PopularPostLimit {
		ranked = ranked[:PopularPostLimit]
	}

	return ranked
}

// placeholderSummary is the demo dataset shown while analytics storage is
// not provisioned.
func placeholderSummary() *Summary {
	return &Summary{
		TotalViews:  1247,
		RecentViews: 342,
		PopularPosts: []PopularPost{
			{PostID: "sample-1", Title: "Welcome to your new blog", Slug: "welcome", Views: 89},
			{PostID: "sample-2", Title: "Writing your first post", Slug: "first-post", Views: 54},
		},
		Placeholder: true,
	}
}
