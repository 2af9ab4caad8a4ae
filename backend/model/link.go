package model

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Link struct {
	ID          int64     `json:"id" gorm:"primaryKey"`
	Description string    `json:"description" gorm:"type:text;not null"`
	URL         string    `json:"url" gorm:"column:url;type:text;not null"`
	CreatedAt   time.Time `json:"createdAt" gorm:"index"`
	PostedByID  *int64    `json:"postedById,omitempty" gorm:"index"`
	PostedBy    *User     `json:"-" gorm:"foreignKey:PostedByID;constraint:OnDelete:SET NULL"`
	Voters      []*User   `json:"-" gorm:"many2many:votes"`

	// Lower-cased copies searched by the feed filter. Folding in Go keeps
	// matching identical on every dialect, SQLite's LOWER only folds ASCII.
	DescriptionFold string `json:"-" gorm:"column:description_fold;type:text"`
	URLFold         string `json:"-" gorm:"column:url_fold;type:text"`
}

func (l *Link) BeforeSave(tx *gorm.DB) error {
	l.DescriptionFold = strings.ToLower(l.Description)
	l.URLFold = strings.ToLower(l.URL)
	return nil
}

const votesTable = "votes"

// OrderClause sorts by one Link field; Field uses the GraphQL field name.
type OrderClause struct {
	Field string
	Desc  bool
}

// LinkQuery is a feed page request. Nil Take/Skip mean "not given". A
// negative Take returns the last |Take| rows of the ordering, still in
// that ordering, with Skip counted from the end.
type LinkQuery struct {
	Filter  string
	Take    *int
	Skip    *int
	OrderBy []OrderClause
}

var linkOrderColumns = map[string]string{
	"description": "description",
	"url":         "url",
	"createdAt":   "created_at",
	"id":          "id",
}

var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// containsFilter matches description or url containing filter, ignoring case.
// LIKE wildcards in filter match literally.
func containsFilter(filter string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if filter == "" {
			return db
		}
		pattern := "%" + likeEscaper.Replace(strings.ToLower(filter)) + "%"
		return db.Where("description_fold LIKE ? ESCAPE '!' OR url_fold LIKE ? ESCAPE '!'", pattern, pattern)
	}
}

type LinkRepository struct {
	db *gorm.DB
}

func NewLinkRepository(db *gorm.DB) *LinkRepository {
	return &LinkRepository{db: db}
}

func (r *LinkRepository) FindLinks(ctx context.Context, query LinkQuery) ([]*Link, error) {
	backwards := query.Take != nil && *query.Take < 0

	orderBy := query.OrderBy
	if len(orderBy) == 0 {
		orderBy = []OrderClause{{Field: "id"}}
	}
	tx := r.db.WithContext(ctx).Model(&Link{}).Scopes(containsFilter(query.Filter))
	for _, order := range orderBy {
		column, ok := linkOrderColumns[order.Field]
		if !ok {
			return nil, fmt.Errorf("unknown order field %q", order.Field)
		}
		tx = tx.Order(clause.OrderByColumn{Column: clause.Column{Name: column}, Desc: order.Desc != backwards})
	}
	if query.Take != nil {
		take := *query.Take
		if backwards {
			take = -take
		}
		tx = tx.Limit(take)
	}
	if query.Skip != nil {
		tx = tx.Offset(*query.Skip)
	}

	var links []*Link
	if err := tx.Find(&links).Error; err != nil {
		return nil, fmt.Errorf("find links: %w", err)
	}
	if backwards {
		slices.Reverse(links)
	}
	return links, nil
}

func (r *LinkRepository) CountLinks(ctx context.Context, filter string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&Link{}).Scopes(containsFilter(filter)).Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("count links: %w", err)
	}
	return count, nil
}

func (r *LinkRepository) AllLinks(ctx context.Context) ([]*Link, error) {
	var links []*Link
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&links).Error; err != nil {
		return nil, fmt.Errorf("find all links: %w", err)
	}
	return links, nil
}

func (r *LinkRepository) FindLink(ctx context.Context, id int64) (*Link, error) {
	var link Link
	if err := r.db.WithContext(ctx).First(&link, id).Error; err != nil {
		return nil, fmt.Errorf("find link %d: %w", id, err)
	}
	return &link, nil
}

func (r *LinkRepository) CreateLink(ctx context.Context, link *Link) error {
	if err := r.db.WithContext(ctx).Create(link).Error; err != nil {
		return fmt.Errorf("create link: %w", err)
	}
	return nil
}

// DeleteLink removes the link and its votes. A missing link yields ErrRecordNotFound.
func (r *LinkRepository) DeleteLink(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM "+votesTable+" WHERE link_id = ?", id).Error; err != nil {
			return fmt.Errorf("delete votes of link %d: %w", id, err)
		}
		result := tx.Delete(&Link{}, id)
		if result.Error != nil {
			return fmt.Errorf("delete link %d: %w", id, result.Error)
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("delete link %d: %w", id, ErrRecordNotFound)
		}
		return nil
	})
}

func (r *LinkRepository) LinksByUser(ctx context.Context, userID int64) ([]*Link, error) {
	var links []*Link
	err := r.db.WithContext(ctx).Where("posted_by_id = ?", userID).Order("id ASC").Find(&links).Error
	if err != nil {
		return nil, fmt.Errorf("find links of user %d: %w", userID, err)
	}
	return links, nil
}

// PostedBy returns the author of link, or nil when the link has none.
func (r *LinkRepository) PostedBy(ctx context.Context, link *Link) (*User, error) {
	if link.PostedByID == nil {
		return nil, nil
	}
	var user User
	err := r.db.WithContext(ctx).Limit(1).Find(&user, *link.PostedByID).Error
	if err != nil {
		return nil, fmt.Errorf("find author of link %d: %w", link.ID, err)
	}
	if user.ID == 0 {
		return nil, nil
	}
	return &user, nil
}

func (r *LinkRepository) Voters(ctx context.Context, linkID int64) ([]*User, error) {
	var users []*User
	err := r.db.WithContext(ctx).
		Joins("JOIN "+votesTable+" ON "+votesTable+".user_id = users.id").
		Where(votesTable+".link_id = ?", linkID).
		Order("users.id ASC").
		Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("find voters of link %d: %w", linkID, err)
	}
	return users, nil
}

func (r *LinkRepository) HasVoted(ctx context.Context, linkID int64, userID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Table(votesTable).
		Where("link_id = ? AND user_id = ?", linkID, userID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("check vote: %w", err)
	}
	return count > 0, nil
}

func (r *LinkRepository) AddVoter(ctx context.Context, linkID int64, userID int64) error {
	err := r.db.WithContext(ctx).Table(votesTable).Create(map[string]interface{}{
		"link_id": linkID,
		"user_id": userID,
	}).Error
	if err != nil {
		return fmt.Errorf("add voter %d to link %d: %w", userID, linkID, err)
	}
	return nil
}
