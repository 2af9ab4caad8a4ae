package graph

import (
	"context"
	"errors"
	"fmt"
	"time"

	"linkboard/backend/common"
	lberrors "linkboard/backend/common/errors"
	"linkboard/backend/common/i18n"
	"linkboard/backend/library/feedcache"
	"linkboard/backend/model"

	"github.com/graphql-go/graphql"
	"golang.org/x/sync/errgroup"
)

// LinkStore is implemented by model.LinkRepository.
type LinkStore interface {
	FindLinks(ctx context.Context, query model.LinkQuery) ([]*model.Link, error)
	CountLinks(ctx context.Context, filter string) (int64, error)
	AllLinks(ctx context.Context) ([]*model.Link, error)
	FindLink(ctx context.Context, id int64) (*model.Link, error)
	CreateLink(ctx context.Context, link *model.Link) error
	DeleteLink(ctx context.Context, id int64) error
	PostedBy(ctx context.Context, link *model.Link) (*model.User, error)
	Voters(ctx context.Context, linkID int64) ([]*model.User, error)
	LinksByUser(ctx context.Context, userID int64) ([]*model.Link, error)
	HasVoted(ctx context.Context, linkID int64, userID int64) (bool, error)
	AddVoter(ctx context.Context, linkID int64, userID int64) error
}

// UserStore is implemented by model.UserRepository.
type UserStore interface {
	FindUser(ctx context.Context, id int64) (*model.User, error)
}

// FeedCache is implemented by feedcache.Manager.
type FeedCache interface {
	GetFeed(ctx context.Context, feedID string) (*feedcache.Entry, feedcache.Key, bool)
	SetFeed(ctx context.Context, key feedcache.Key, entry *feedcache.Entry)
	Invalidate(ctx context.Context)
}

// Vote is the result of the vote mutation.
type Vote struct {
	Link *model.Link `json:"link"`
	User *model.User `json:"user"`
}

type postLinkInput struct {
	Description string `validate:"max=1024"`
	URL         string `validate:"max=2048"`
}

// Resolver answers the fields of the schema. Cache is optional.
type Resolver struct {
	Links LinkStore
	Users UserStore
	Cache FeedCache
}

func internalError(ctx context.Context, op string, err error) error {
	common.SysError(fmt.Sprintf("graphql %s failed: %v", op, err))
	return i18n.Wrap(err, lberrors.ErrInternalServer, common.LangFromContext(ctx))
}

func notLoggedIn(ctx context.Context, actionKey string) error {
	lang := common.LangFromContext(ctx)
	return i18n.New(lberrors.ErrNotLoggedIn, lang, i18n.Translate(actionKey, lang))
}

func (r *Resolver) invalidateFeeds(ctx context.Context) {
	if r.Cache != nil {
		r.Cache.Invalidate(ctx)
	}
}

func (r *Resolver) allLinks(ctx context.Context) ([]*model.Link, error) {
	links, err := r.Links.AllLinks(ctx)
	if err != nil {
		return nil, err
	}
	return nonNilLinks(links), nil
}

func (r *Resolver) feed(p graphql.ResolveParams) (interface{}, error) {
	ctx := p.Context
	fa := parseFeedArgs(p.Args)
	query, err := linkQuery(fa, common.LangFromContext(ctx))
	if err != nil {
		return nil, err
	}
	id, err := feedID(fa)
	if err != nil {
		return nil, internalError(ctx, "feed", err)
	}

	// The key is taken before loading so a write that lands mid-read
	// leaves this page unreachable.
	var cacheKey feedcache.Key
	if r.Cache != nil {
		entry, key, ok := r.Cache.GetFeed(ctx, id)
		if ok {
			return &Feed{ID: id, Count: entry.Count, Links: nonNilLinks(entry.Links)}, nil
		}
		cacheKey = key
	}

	var (
		links []*model.Link
		count int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		links, err = r.Links.FindLinks(gctx, query)
		return err
	})
	g.Go(func() error {
		var err error
		count, err = r.Links.CountLinks(gctx, query.Filter)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, internalError(ctx, "feed", err)
	}

	links = nonNilLinks(links)
	if r.Cache != nil {
		r.Cache.SetFeed(ctx, cacheKey, &feedcache.Entry{Links: links, Count: count, FetchedAt: time.Now()})
	}
	return &Feed{ID: id, Count: count, Links: links}, nil
}

func (r *Resolver) getLinks(p graphql.ResolveParams) (interface{}, error) {
	id, _ := p.Args["id"].(int)
	links, err := r.allLinks(p.Context)
	if err != nil {
		return nil, internalError(p.Context, "getLinks", err)
	}

	matched := make([]*model.Link, 0, 1)
	for _, link := range links {
		if link.ID == int64(id) {
			matched = append(matched, link)
		}
	}
	return matched, nil
}

func (r *Resolver) postLink(p graphql.ResolveParams) (interface{}, error) {
	ctx := p.Context
	userID, ok := common.UserIDFromContext(ctx)
	if !ok {
		return nil, notLoggedIn(ctx, "action_post")
	}

	input := postLinkInput{}
	input.Description, _ = p.Args["description"].(string)
	input.URL, _ = p.Args["url"].(string)
	if err := common.Validate.Struct(input); err != nil {
		return nil, i18n.Wrap(err, lberrors.ErrInvalidParam, common.LangFromContext(ctx), err.Error())
	}

	link := &model.Link{
		Description: input.Description,
		URL:         input.URL,
		PostedByID:  &userID,
	}
	if err := r.Links.CreateLink(ctx, link); err != nil {
		return nil, internalError(ctx, "postLink", err)
	}
	r.invalidateFeeds(ctx)

	links, err := r.allLinks(ctx)
	if err != nil {
		return nil, internalError(ctx, "postLink", err)
	}
	return links, nil
}

// deleteLink never reports a failed delete to the client; the list it
// returns shows whether the link is gone.
func (r *Resolver) deleteLink(p graphql.ResolveParams) (interface{}, error) {
	ctx := p.Context
	id, _ := p.Args["id"].(int)

	if err := r.Links.DeleteLink(ctx, int64(id)); err != nil {
		common.SysError(fmt.Sprintf("delete link %d: %v", id, err))
	} else {
		r.invalidateFeeds(ctx)
	}

	links, err := r.allLinks(ctx)
	if err != nil {
		return nil, internalError(ctx, "deleteLink", err)
	}
	return links, nil
}

func (r *Resolver) vote(p graphql.ResolveParams) (interface{}, error) {
	ctx := p.Context
	lang := common.LangFromContext(ctx)
	userID, ok := common.UserIDFromContext(ctx)
	if !ok {
		return nil, notLoggedIn(ctx, "action_vote")
	}
	linkID, _ := p.Args["linkId"].(int)

	link, err := r.Links.FindLink(ctx, int64(linkID))
	if err != nil {
		if errors.Is(err, model.ErrRecordNotFound) {
			return nil, i18n.New(lberrors.ErrLinkNotFound, lang, linkID)
		}
		return nil, internalError(ctx, "vote", err)
	}

	voted, err := r.Links.HasVoted(ctx, link.ID, userID)
	if err != nil {
		return nil, internalError(ctx, "vote", err)
	}
	if voted {
		return nil, i18n.New(lberrors.ErrAlreadyVoted, lang, linkID)
	}

	user, err := r.Users.FindUser(ctx, userID)
	if err != nil {
		if errors.Is(err, model.ErrRecordNotFound) {
			return nil, i18n.New(lberrors.ErrUserNotFound, lang)
		}
		return nil, internalError(ctx, "vote", err)
	}

	if err := r.Links.AddVoter(ctx, link.ID, user.ID); err != nil {
		return nil, internalError(ctx, "vote", err)
	}
	r.invalidateFeeds(ctx)

	return &Vote{Link: link, User: user}, nil
}

func (r *Resolver) linkPostedBy(p graphql.ResolveParams) (interface{}, error) {
	link, ok := p.Source.(*model.Link)
	if !ok {
		return nil, nil
	}
	user, err := r.Links.PostedBy(p.Context, link)
	if err != nil {
		return nil, internalError(p.Context, "Link.postedBy", err)
	}
	if user == nil {
		return nil, nil
	}
	return user, nil
}

func (r *Resolver) linkVoters(p graphql.ResolveParams) (interface{}, error) {
	link, ok := p.Source.(*model.Link)
	if !ok {
		return []*model.User{}, nil
	}
	users, err := r.Links.Voters(p.Context, link.ID)
	if err != nil {
		return nil, internalError(p.Context, "Link.voters", err)
	}
	if users == nil {
		users = []*model.User{}
	}
	return users, nil
}

func (r *Resolver) userLinks(p graphql.ResolveParams) (interface{}, error) {
	user, ok := p.Source.(*model.User)
	if !ok {
		return []*model.Link{}, nil
	}
	links, err := r.Links.LinksByUser(p.Context, user.ID)
	if err != nil {
		return nil, internalError(p.Context, "User.links", err)
	}
	return nonNilLinks(links), nil
}

func nonNilLinks(links []*model.Link) []*model.Link {
	if links == nil {
		return []*model.Link{}
	}
	return links
}
