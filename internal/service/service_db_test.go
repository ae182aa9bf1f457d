package service

import (
	"context"
	"feednana/internal/dto"
	"feednana/internal/repo"
	"feednana/internal/storage"
	"feednana/model"
	"feednana/utils"
	"testing"
	"time"
)

func cleanTables(t *testing.T) {
	t.Helper()
	repo.Db.Exec("SET FOREIGN_KEY_CHECKS = 0")
	tables := []string{
		"upload_session",
		"timeline_item",
		"timeline",
		"vote",
		"comment",
		"report",
		"file",
		"album",
		"user_db",
	}
	for _, table := range tables {
		if err := repo.Db.Exec("DELETE FROM " + table).Error; err != nil {
			t.Fatalf("clean %s failed: %v", table, err)
		}
	}
	repo.Db.Exec("SET FOREIGN_KEY_CHECKS = 1")
}

func anonTestIdentity() Identity {
	id := utils.GetToken()
	a, b := utils.AnonColors(id)
	return Identity{AnonID: id, AnonColorA: a, AnonColorB: b}
}

func createTestUser(t *testing.T, name string) *model.User {
	t.Helper()
	user := &model.User{
		UserName: name,
		Password: utils.GetPwd("123456"),
		Email:    name + "@test.com",
		IsActive: true,
	}
	if err := CreateUser(user); err != nil {
		t.Fatal(err)
	}
	return user
}

// initiateTestBatch opens sessions against the fake store and builds the
// matching completion payload with well-formed parts.
func initiateTestBatch(t *testing.T, identity Identity, sizes map[string]int64) []dto.CompletedUploadInput {
	t.Helper()
	ctx := context.Background()
	files := make([]dto.UploadFileInput, 0, len(sizes))
	names := make([]string, 0, len(sizes))
	for name, size := range sizes {
		files = append(files, dto.UploadFileInput{
			FileName: name,
			FileSize: size,
			MimeType: "image/png",
		})
		names = append(names, name)
	}
	targets, err := InitiateUpload(ctx, identity, files)
	if err != nil {
		t.Fatalf("InitiateUpload: %v", err)
	}
	uploads := make([]dto.CompletedUploadInput, 0, len(targets))
	for i, target := range targets {
		if want := storage.PartCount(files[i].FileSize); len(target.URLs) != want {
			t.Fatalf("target %d has %d urls, want %d", i, len(target.URLs), want)
		}
		parts := make([]dto.UploadPartInput, 0, len(target.URLs))
		for n := range target.URLs {
			parts = append(parts, dto.UploadPartInput{PartNumber: n + 1, ETag: "etag"})
		}
		uploads = append(uploads, dto.CompletedUploadInput{
			Key:      target.Key,
			UploadID: target.UploadID,
			FileName: names[i],
			FileSize: files[i].FileSize,
			MimeType: "image/png",
			Parts:    parts,
		})
	}
	return uploads
}

func TestCompleteUploadSingleFile(t *testing.T) {
	requireDb(t)
	cleanTables(t)
	useFakeStore(t)

	identity := anonTestIdentity()
	uploads := initiateTestBatch(t, identity, map[string]int64{"photo.png": 12 * 1024 * 1024})

	files, album, err := CompleteUpload(context.Background(), identity, dto.CompleteUploadRequest{
		Uploads: uploads,
		Name:    "my photo",
	})
	if err != nil {
		t.Fatalf("CompleteUpload: %v", err)
	}
	if album != nil {
		t.Error("single file batch must not create an album")
	}
	if len(files) != 1 {
		t.Fatalf("got %d files", len(files))
	}
	file := files[0]
	if file.AlbumID != nil {
		t.Error("single file got an album id")
	}
	if file.FileURL == "" || file.HashedFileName != uploads[0].Key {
		t.Errorf("file row incomplete: url=%q key=%q", file.FileURL, file.HashedFileName)
	}
	if file.AnonID != identity.AnonID {
		t.Error("anon identity not stamped on file")
	}

	var session model.UploadSession
	if err := repo.Db.Where("object_key = ?", uploads[0].Key).First(&session).Error; err != nil {
		t.Fatalf("session row: %v", err)
	}
	if session.Status != model.UploadStatusCompleted {
		t.Errorf("session status = %d", session.Status)
	}
}

func TestCompleteUploadBatchCreatesOneAlbum(t *testing.T) {
	requireDb(t)
	cleanTables(t)
	useFakeStore(t)

	identity := anonTestIdentity()
	uploads := initiateTestBatch(t, identity, map[string]int64{
		"one.png": 6 * 1024 * 1024,
		"two.png": 3 * 1024 * 1024,
	})

	files, album, err := CompleteUpload(context.Background(), identity, dto.CompleteUploadRequest{
		Uploads: uploads,
		Name:    "trip",
	})
	if err != nil {
		t.Fatalf("CompleteUpload: %v", err)
	}
	if album == nil {
		t.Fatal("multi file batch must create an album")
	}
	if len(files) != 2 {
		t.Fatalf("got %d files", len(files))
	}
	for _, file := range files {
		if file.AlbumID == nil || *file.AlbumID != album.ID {
			t.Errorf("file %d not in album", file.ID)
		}
	}
	var albumCount int64
	repo.Db.Model(&model.Album{}).Count(&albumCount)
	if albumCount != 1 {
		t.Errorf("album count = %d, want exactly one", albumCount)
	}
}

func TestCompleteUploadRollsBackWholeBatch(t *testing.T) {
	requireDb(t)
	cleanTables(t)
	useFakeStore(t)

	identity := anonTestIdentity()
	uploads := initiateTestBatch(t, identity, map[string]int64{
		"good.png": 1024,
		"bad.png":  1024,
	})
	// Break the second file's parts: a gap the backend would reject.
	uploads[1].Parts = []dto.UploadPartInput{{PartNumber: 2, ETag: "etag"}}

	_, _, err := CompleteUpload(context.Background(), identity, dto.CompleteUploadRequest{Uploads: uploads})
	if err == nil {
		t.Fatal("expected completion to fail")
	}

	var fileCount, albumCount int64
	repo.Db.Model(&model.File{}).Count(&fileCount)
	repo.Db.Model(&model.Album{}).Count(&albumCount)
	if fileCount != 0 || albumCount != 0 {
		t.Errorf("partial batch visible: %d files, %d albums", fileCount, albumCount)
	}
	var openSessions int64
	repo.Db.Model(&model.UploadSession{}).Where("status = ?", model.UploadStatusOpen).Count(&openSessions)
	if openSessions != 2 {
		t.Errorf("open sessions = %d, want 2 kept for retry", openSessions)
	}
}

func TestCompleteUploadConsumesSessions(t *testing.T) {
	requireDb(t)
	cleanTables(t)
	useFakeStore(t)

	identity := anonTestIdentity()
	uploads := initiateTestBatch(t, identity, map[string]int64{"once.png": 1024})

	if _, _, err := CompleteUpload(context.Background(), identity, dto.CompleteUploadRequest{Uploads: uploads}); err != nil {
		t.Fatalf("first completion: %v", err)
	}
	if _, _, err := CompleteUpload(context.Background(), identity, dto.CompleteUploadRequest{Uploads: uploads}); err == nil {
		t.Fatal("second completion of the same batch must fail")
	}
}

func TestCastVoteUpsertsAndDerivesKarma(t *testing.T) {
	requireDb(t)
	cleanTables(t)

	file := model.File{OriginalName: "a.png", Size: 1, MimeType: "image/png", HashedFileName: "a", FileURL: "http://x/a"}
	if err := repo.Db.Create(&file).Error; err != nil {
		t.Fatal(err)
	}
	user := createTestUser(t, "voter")
	authed := Identity{UserID: &user.ID}
	anon := anonTestIdentity()
	ctx := context.Background()

	if _, err := CastVote(ctx, authed, model.FlavorFile, file.ID, 1); err != nil {
		t.Fatalf("user vote: %v", err)
	}
	karma, err := CastVote(ctx, anon, model.FlavorFile, file.ID, 1)
	if err != nil {
		t.Fatalf("anon vote: %v", err)
	}
	if karma != 2 {
		t.Errorf("karma = %d, want 2", karma)
	}

	// Revote flips the existing ballot instead of stacking a second one.
	karma, err = CastVote(ctx, anon, model.FlavorFile, file.ID, -1)
	if err != nil {
		t.Fatalf("anon revote: %v", err)
	}
	if karma != 0 {
		t.Errorf("karma after revote = %d, want 0", karma)
	}
	var votes int64
	repo.Db.Model(&model.Vote{}).Where("flavor = ? AND content_id = ?", model.FlavorFile, file.ID).Count(&votes)
	if votes != 2 {
		t.Errorf("vote rows = %d, want 2", votes)
	}
}

func TestCastVoteRejectsBadInput(t *testing.T) {
	requireDb(t)
	cleanTables(t)
	anon := anonTestIdentity()
	ctx := context.Background()
	if _, err := CastVote(ctx, anon, "nonsense", 1, 1); err == nil {
		t.Error("unknown flavor accepted")
	}
	if _, err := CastVote(ctx, anon, model.FlavorFile, 1, 2); err == nil {
		t.Error("vote value 2 accepted")
	}
	if _, err := CastVote(ctx, Identity{}, model.FlavorFile, 1, 1); err == nil {
		t.Error("empty identity accepted")
	}
}

func TestCommentCountExcludesRemoved(t *testing.T) {
	requireDb(t)
	cleanTables(t)

	file := model.File{OriginalName: "a.png", Size: 1, MimeType: "image/png", HashedFileName: "c", FileURL: "http://x/c"}
	if err := repo.Db.Create(&file).Error; err != nil {
		t.Fatal(err)
	}
	anon := anonTestIdentity()
	ctx := context.Background()

	first, err := CreateComment(ctx, anon, model.FlavorFile, file.ID, "first")
	if err != nil {
		t.Fatalf("comment: %v", err)
	}
	if _, err := CreateComment(ctx, anon, model.FlavorFile, file.ID, "second"); err != nil {
		t.Fatalf("comment: %v", err)
	}

	moderator := createTestUser(t, "mod")
	repo.Db.Model(&model.User{}).Where("id = ?", moderator.ID).Update("is_moderator", true)
	if err := RemoveComment(first.ID, moderator.ID); err != nil {
		t.Fatalf("remove comment: %v", err)
	}

	count, err := CommentCount(model.FlavorFile, file.ID)
	if err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Errorf("comment count = %d, want 1", count)
	}
	views, err := ListComments(model.FlavorFile, file.ID, 1, 50)
	if err != nil {
		t.Fatal(err)
	}
	if len(views) != 1 || views[0].Body != "second" {
		t.Errorf("listed %d comments", len(views))
	}
}

func TestCommentsDisabled(t *testing.T) {
	requireDb(t)
	cleanTables(t)

	file := model.File{OriginalName: "a.png", Size: 1, MimeType: "image/png", HashedFileName: "d", FileURL: "http://x/d", DisableComments: true}
	if err := repo.Db.Create(&file).Error; err != nil {
		t.Fatal(err)
	}
	if _, err := CreateComment(context.Background(), anonTestIdentity(), model.FlavorFile, file.ID, "hello"); err == nil {
		t.Fatal("comment accepted on comment-disabled file")
	}
}

func TestReapStaleUploadSessions(t *testing.T) {
	requireDb(t)
	cleanTables(t)
	fake := useFakeStore(t)

	identity := anonTestIdentity()
	stale := initiateTestBatch(t, identity, map[string]int64{"old.png": 1024})
	fresh := initiateTestBatch(t, identity, map[string]int64{"new.png": 1024})

	past := time.Now().Add(-72 * time.Hour)
	repo.Db.Model(&model.UploadSession{}).
		Where("object_key = ?", stale[0].Key).
		Update("created_at", past)

	reaped, err := ReapStaleUploadSessions(context.Background())
	if err != nil {
		t.Fatalf("reap: %v", err)
	}
	if reaped != 1 {
		t.Errorf("reaped = %d, want 1", reaped)
	}
	if fake.openUploads() != 1 {
		t.Errorf("open provider sessions = %d, want 1", fake.openUploads())
	}
	var sessions []model.UploadSession
	repo.Db.Find(&sessions)
	if len(sessions) != 1 || sessions[0].ObjectKey != fresh[0].Key {
		t.Errorf("surviving sessions wrong: %+v", sessions)
	}
}
