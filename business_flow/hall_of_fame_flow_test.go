package businessflow

import (
	"testing"

	"github.com/cutroom-academy/cutroom-api/app/dto"
	"github.com/cutroom-academy/cutroom-api/repository"
	testingutil "github.com/cutroom-academy/cutroom-api/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newHallOfFameTestFlow(testDB *testingutil.TestDB) HallOfFameFlow {
	hofRepo := repository.NewHallOfFameRepository(testDB.DB)
	auditRepo := repository.NewAuditLogRepository(testDB.DB)
	return NewHallOfFameFlow(hofRepo, auditRepo)
}

func intPtr(v int) *int {
	return &v
}

func TestHallOfFameWebhook(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		flow := newHallOfFameTestFlow(testDB)
		ctx := testingutil.CreateTestContext()

		t.Run("NewSubmissionCreatesEntry", func(t *testing.T) {
			result, err := flow.ApplyWebhook(ctx, &dto.HallOfFameWebhookRequest{
				EventType:   dto.HallOfFameEventNewSubmission,
				ExternalID:  "sub-100",
				StudentName: "Diego Ruiz",
				VideoURL:    "https://videos.example.com/diego.mp4",
				Title:       "Cinematic cut",
				Votes:       intPtr(3),
			}, nil)
			require.NoError(t, err)
			assert.Equal(t, "sub-100", result.ExternalID)
			assert.Equal(t, "Diego Ruiz", result.StudentName)
			assert.Equal(t, "Cinematic cut", result.Title)
			assert.Equal(t, 3, result.Votes)
			assert.NotEmpty(t, result.CreatedAt)
		})

		t.Run("RedeliveredSubmissionUpdatesInPlace", func(t *testing.T) {
			result, err := flow.ApplyWebhook(ctx, &dto.HallOfFameWebhookRequest{
				EventType:   dto.HallOfFameEventNewSubmission,
				ExternalID:  "sub-100",
				StudentName: "Diego R.",
				VideoURL:    "https://videos.example.com/diego-v2.mp4",
			}, nil)
			require.NoError(t, err)
			assert.Equal(t, "Diego R.", result.StudentName)
			assert.Equal(t, "https://videos.example.com/diego-v2.mp4", result.VideoURL)
			// votes untouched when the redelivery omits them
			assert.Equal(t, 3, result.Votes)

			hofRepo := repository.NewHallOfFameRepository(testDB.DB)
			entry, err := hofRepo.ByExternalID(ctx, "sub-100")
			require.NoError(t, err)
			require.NotNil(t, entry)
			assert.Equal(t, "Diego R.", entry.StudentName)
		})

		t.Run("VoteChangeUpdatesVotes", func(t *testing.T) {
			result, err := flow.ApplyWebhook(ctx, &dto.HallOfFameWebhookRequest{
				EventType:  dto.HallOfFameEventVoteChange,
				ExternalID: "sub-100",
				Votes:      intPtr(41),
			}, nil)
			require.NoError(t, err)
			assert.Equal(t, 41, result.Votes)
		})

		t.Run("VoteChangeForUnknownEntryFails", func(t *testing.T) {
			_, err := flow.ApplyWebhook(ctx, &dto.HallOfFameWebhookRequest{
				EventType:  dto.HallOfFameEventVoteChange,
				ExternalID: "sub-missing",
				Votes:      intPtr(5),
			}, nil)
			require.Error(t, err)
			assert.True(t, IsHallOfFameEntryNotFound(err))
		})

		t.Run("VoteChangeRequiresVotes", func(t *testing.T) {
			_, err := flow.ApplyWebhook(ctx, &dto.HallOfFameWebhookRequest{
				EventType:  dto.HallOfFameEventVoteChange,
				ExternalID: "sub-100",
			}, nil)
			require.Error(t, err)
			assert.True(t, IsHallOfFameEntryFields(err))
		})

		t.Run("NewSubmissionRequiresNameAndVideo", func(t *testing.T) {
			_, err := flow.ApplyWebhook(ctx, &dto.HallOfFameWebhookRequest{
				EventType:  dto.HallOfFameEventNewSubmission,
				ExternalID: "sub-101",
				VideoURL:   "https://videos.example.com/x.mp4",
			}, nil)
			require.Error(t, err)
			assert.True(t, IsHallOfFameEntryFields(err))

			_, err = flow.ApplyWebhook(ctx, &dto.HallOfFameWebhookRequest{
				EventType:   dto.HallOfFameEventNewSubmission,
				ExternalID:  "sub-101",
				StudentName: "Ana",
			}, nil)
			require.Error(t, err)
			assert.True(t, IsHallOfFameEntryFields(err))
		})

		t.Run("UnknownEventTypeRejected", func(t *testing.T) {
			_, err := flow.ApplyWebhook(ctx, &dto.HallOfFameWebhookRequest{
				EventType:  "entry_deleted",
				ExternalID: "sub-100",
			}, nil)
			require.Error(t, err)
			assert.True(t, IsHallOfFameEventType(err))
		})

		t.Run("MissingExternalIDRejected", func(t *testing.T) {
			_, err := flow.ApplyWebhook(ctx, &dto.HallOfFameWebhookRequest{
				EventType:   dto.HallOfFameEventNewSubmission,
				ExternalID:  "  ",
				StudentName: "Ana",
				VideoURL:    "https://videos.example.com/x.mp4",
			}, nil)
			require.Error(t, err)
			assert.True(t, IsHallOfFameEntryFields(err))
		})

		t.Run("NilRequestRejected", func(t *testing.T) {
			_, err := flow.ApplyWebhook(ctx, nil, nil)
			require.Error(t, err)
		})

		return nil
	})
	require.NoError(t, err)
}

func TestHallOfFameListEntries(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		flow := newHallOfFameTestFlow(testDB)
		ctx := testingutil.CreateTestContext()

		_, err := fixtures.CreateTestHallOfFameEntry("sub-1", 10)
		require.NoError(t, err)
		_, err = fixtures.CreateTestHallOfFameEntry("sub-2", 40)
		require.NoError(t, err)
		_, err = fixtures.CreateTestHallOfFameEntry("sub-3", 25)
		require.NoError(t, err)

		t.Run("OrdersByVotesDescending", func(t *testing.T) {
			entries, err := flow.ListEntries(ctx, 10)
			require.NoError(t, err)
			require.Len(t, entries, 3)
			assert.Equal(t, "sub-2", entries[0].ExternalID)
			assert.Equal(t, "sub-3", entries[1].ExternalID)
			assert.Equal(t, "sub-1", entries[2].ExternalID)
		})

		t.Run("HonorsLimit", func(t *testing.T) {
			entries, err := flow.ListEntries(ctx, 2)
			require.NoError(t, err)
			require.Len(t, entries, 2)
			assert.Equal(t, "sub-2", entries[0].ExternalID)
		})

		t.Run("OutOfRangeLimitFallsBackToDefault", func(t *testing.T) {
			entries, err := flow.ListEntries(ctx, 0)
			require.NoError(t, err)
			assert.Len(t, entries, 3)

			entries, err = flow.ListEntries(ctx, 500)
			require.NoError(t, err)
			assert.Len(t, entries, 3)
		})

		return nil
	})
	require.NoError(t, err)
}
