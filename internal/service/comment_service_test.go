package service

import (
	"errors"
	"testing"
	"time"

	"github.com/inkwell/internal/db"
	"gorm.io/gorm"
)

func seedPublishedPost(t *testing.T, gdb *gorm.DB, title string) *db.Post {
	t.Helper()
	author := seedUser(t, gdb, "post-author-"+title, db.RoleAuthor)
	category := seedCategory(t, gdb, "Category for "+title)
	now := gdb.NowFunc()
	post := db.Post{
		Title:       title,
		Slug:        Slugify(title),
		Content:     "body",
		CategoryID:  category.ID,
		AuthorID:    author.ID,
		Status:      db.PostStatusPublished,
		PublishedAt: &now,
	}
	if err := gdb.Create(&post).Error; err != nil {
		t.Fatalf("seed post: %v", err)
	}
	return &post
}

func TestCommentService_SubmitStartsUnapproved(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewCommentService(gdb)
	post := seedPublishedPost(t, gdb, "Commentable One")

	echo, err := svc.Submit(CommentInput{
		PostID:     post.ID,
		AuthorName: "Reader",
		Content:    `Nice <script>alert("x")</script> piece`,
	})
	if err != nil {
		t.Fatalf("submit comment: %v", err)
	}

	if echo.Content != "Nice  piece" {
		t.Fatalf("markup not stripped from echo: %q", echo.Content)
	}

	var stored db.Comment
	if err := gdb.First(&stored, echo.ID).Error; err != nil {
		t.Fatalf("load stored comment: %v", err)
	}
	if stored.IsApproved {
		t.Fatalf("submitted comment must start unapproved")
	}

	public, err := svc.ListPublic(post.ID)
	if err != nil {
		t.Fatalf("list public comments: %v", err)
	}
	if len(public) != 0 {
		t.Fatalf("unapproved comment leaked into the public listing")
	}
}

func TestCommentService_SubmitValidation(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewCommentService(gdb)
	post := seedPublishedPost(t, gdb, "Commentable Two")

	var validation *ValidationError
	if _, err := svc.Submit(CommentInput{PostID: post.ID, AuthorName: "", Content: "hi"}); !errors.As(err, &validation) {
		t.Fatalf("expected ValidationError for missing author name, got %v", err)
	}
	if _, err := svc.Submit(CommentInput{PostID: post.ID, AuthorName: "Reader", Content: "<b></b>"}); !errors.As(err, &validation) {
		t.Fatalf("expected ValidationError for empty sanitized content, got %v", err)
	}

	var notFoundErr *NotFoundError
	if _, err := svc.Submit(CommentInput{PostID: 99999, AuthorName: "Reader", Content: "hi"}); !errors.As(err, &notFoundErr) {
		t.Fatalf("expected NotFoundError for missing post, got %v", err)
	}
}

func TestCommentService_ReplyMustStayOnSamePost(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewCommentService(gdb)
	postA := seedPublishedPost(t, gdb, "Thread Post A")
	postB := seedPublishedPost(t, gdb, "Thread Post B")

	parent, err := svc.Submit(CommentInput{PostID: postA.ID, AuthorName: "Reader", Content: "top"})
	if err != nil {
		t.Fatalf("submit parent: %v", err)
	}

	reply, err := svc.Submit(CommentInput{PostID: postA.ID, AuthorName: "Other", Content: "reply", ParentID: &parent.ID})
	if err != nil {
		t.Fatalf("submit reply: %v", err)
	}

	var stored db.Comment
	if err := gdb.First(&stored, reply.ID).Error; err != nil {
		t.Fatalf("load reply: %v", err)
	}
	if stored.ParentID == nil || *stored.ParentID != parent.ID {
		t.Fatalf("reply not linked to its parent")
	}

	var notFoundErr *NotFoundError
	if _, err := svc.Submit(CommentInput{PostID: postB.ID, AuthorName: "Sneaky", Content: "cross", ParentID: &parent.ID}); !errors.As(err, &notFoundErr) {
		t.Fatalf("expected NotFoundError for a parent on another post, got %v", err)
	}
}

func TestCommentService_PublicListingOrderAndVisibility(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewCommentService(gdb)
	post := seedPublishedPost(t, gdb, "Ordered Thread")

	first, err := svc.Submit(CommentInput{PostID: post.ID, AuthorName: "A", Content: "first"})
	if err != nil {
		t.Fatalf("submit first: %v", err)
	}
	second, err := svc.Submit(CommentInput{PostID: post.ID, AuthorName: "B", Content: "second"})
	if err != nil {
		t.Fatalf("submit second: %v", err)
	}
	approvedReply, err := svc.Submit(CommentInput{PostID: post.ID, AuthorName: "C", Content: "visible reply", ParentID: &first.ID})
	if err != nil {
		t.Fatalf("submit reply: %v", err)
	}
	hiddenReply, err := svc.Submit(CommentInput{PostID: post.ID, AuthorName: "D", Content: "hidden reply", ParentID: &first.ID})
	if err != nil {
		t.Fatalf("submit hidden reply: %v", err)
	}

	// 列表顺序依赖时间戳，强制错开避免同刻并列。
	if err := gdb.Model(&db.Comment{}).Where("id = ?", first.ID).
		Update("created_at", time.Now().Add(-2*time.Second)).Error; err != nil {
		t.Fatalf("age first comment: %v", err)
	}

	for _, id := range []uint{first.ID, second.ID, approvedReply.ID} {
		if _, err := svc.Moderate(id, true); err != nil {
			t.Fatalf("approve comment %d: %v", id, err)
		}
	}

	public, err := svc.ListPublic(post.ID)
	if err != nil {
		t.Fatalf("list public: %v", err)
	}
	if len(public) != 2 {
		t.Fatalf("expected 2 top-level comments, got %d", len(public))
	}
	if public[0].ID != second.ID || public[1].ID != first.ID {
		t.Fatalf("top-level comments not newest first: %d, %d", public[0].ID, public[1].ID)
	}

	replies := public[1].Replies
	if len(replies) != 1 || replies[0].ID != approvedReply.ID {
		t.Fatalf("expected only the approved reply, got %+v", replies)
	}
	_ = hiddenReply
}

func TestCommentService_ModerateFlipsWithoutCascade(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewCommentService(gdb)
	post := seedPublishedPost(t, gdb, "Moderated Thread")

	parent, err := svc.Submit(CommentInput{PostID: post.ID, AuthorName: "A", Content: "top"})
	if err != nil {
		t.Fatalf("submit parent: %v", err)
	}
	reply, err := svc.Submit(CommentInput{PostID: post.ID, AuthorName: "B", Content: "reply", ParentID: &parent.ID})
	if err != nil {
		t.Fatalf("submit reply: %v", err)
	}
	if _, err := svc.Moderate(reply.ID, true); err != nil {
		t.Fatalf("approve reply: %v", err)
	}

	approved, err := svc.Moderate(parent.ID, true)
	if err != nil {
		t.Fatalf("approve parent: %v", err)
	}
	if !approved.IsApproved {
		t.Fatalf("approval not recorded")
	}

	rejected, err := svc.Moderate(parent.ID, false)
	if err != nil {
		t.Fatalf("reject parent: %v", err)
	}
	if rejected.IsApproved {
		t.Fatalf("rejection not recorded")
	}

	// Rejection hides, never deletes, and never touches replies.
	var childState db.Comment
	if err := gdb.First(&childState, reply.ID).Error; err != nil {
		t.Fatalf("reply should survive parent rejection: %v", err)
	}
	if !childState.IsApproved {
		t.Fatalf("parent decision cascaded onto the reply")
	}
}

func TestCommentService_RemoveCascadesToDirectReplies(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewCommentService(gdb)
	post := seedPublishedPost(t, gdb, "Removed Thread")

	parent, err := svc.Submit(CommentInput{PostID: post.ID, AuthorName: "A", Content: "top"})
	if err != nil {
		t.Fatalf("submit parent: %v", err)
	}
	if _, err := svc.Submit(CommentInput{PostID: post.ID, AuthorName: "B", Content: "reply one", ParentID: &parent.ID}); err != nil {
		t.Fatalf("submit reply: %v", err)
	}
	if _, err := svc.Submit(CommentInput{PostID: post.ID, AuthorName: "C", Content: "reply two", ParentID: &parent.ID}); err != nil {
		t.Fatalf("submit reply: %v", err)
	}
	bystander, err := svc.Submit(CommentInput{PostID: post.ID, AuthorName: "D", Content: "unrelated"})
	if err != nil {
		t.Fatalf("submit bystander: %v", err)
	}

	if err := svc.Remove(parent.ID); err != nil {
		t.Fatalf("remove parent: %v", err)
	}

	var remaining []db.Comment
	if err := gdb.Where("post_id = ?", post.ID).Find(&remaining).Error; err != nil {
		t.Fatalf("list remaining: %v", err)
	}
	if len(remaining) != 1 || remaining[0].ID != bystander.ID {
		t.Fatalf("expected only the unrelated comment to survive, got %d rows", len(remaining))
	}

	var notFoundErr *NotFoundError
	if err := svc.Remove(parent.ID); !errors.As(err, &notFoundErr) {
		t.Fatalf("expected NotFoundError on second removal, got %v", err)
	}
}

func TestCommentService_AdminListFilters(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewCommentService(gdb)
	postA := seedPublishedPost(t, gdb, "Filter Post A")
	postB := seedPublishedPost(t, gdb, "Filter Post B")

	c1, err := svc.Submit(CommentInput{PostID: postA.ID, AuthorName: "A", Content: "one"})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if _, err := svc.Submit(CommentInput{PostID: postA.ID, AuthorName: "B", Content: "two"}); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if _, err := svc.Submit(CommentInput{PostID: postB.ID, AuthorName: "C", Content: "three"}); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if _, err := svc.Moderate(c1.ID, true); err != nil {
		t.Fatalf("approve: %v", err)
	}

	pending, err := svc.List(CommentFilter{Status: "pending"})
	if err != nil {
		t.Fatalf("list pending: %v", err)
	}
	if pending.Total != 2 {
		t.Fatalf("expected 2 pending comments, got %d", pending.Total)
	}

	approved, err := svc.List(CommentFilter{Status: "approved"})
	if err != nil {
		t.Fatalf("list approved: %v", err)
	}
	if approved.Total != 1 || approved.Comments[0].ID != c1.ID {
		t.Fatalf("approved filter mismatch: total %d", approved.Total)
	}

	byPost, err := svc.List(CommentFilter{PostID: postB.ID})
	if err != nil {
		t.Fatalf("list by post: %v", err)
	}
	if byPost.Total != 1 {
		t.Fatalf("expected 1 comment on post B, got %d", byPost.Total)
	}

	stats, err := svc.Stats()
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.Total != 3 || stats.Approved != 1 || stats.Pending != 2 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}
