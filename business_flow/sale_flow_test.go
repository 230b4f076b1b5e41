package businessflow

import (
	"testing"
	"time"

	"github.com/cutroom-academy/cutroom-api/app/dto"
	"github.com/cutroom-academy/cutroom-api/models"
	"github.com/cutroom-academy/cutroom-api/repository"
	testingutil "github.com/cutroom-academy/cutroom-api/testing"
	"github.com/cutroom-academy/cutroom-api/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSaleTestFlow(testDB *testingutil.TestDB) SaleFlow {
	saleRepo := repository.NewSaleRepository(testDB.DB)
	auditRepo := repository.NewAuditLogRepository(testDB.DB)
	return NewSaleFlow(saleRepo, auditRepo, testDB.DB)
}

func TestRecordPayment(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		flow := newSaleTestFlow(testDB)
		ctx := testingutil.CreateTestContext()
		saleRepo := repository.NewSaleRepository(testDB.DB)

		actor, err := fixtures.CreateTestProfile(models.RoleCRMUser)
		require.NoError(t, err)

		t.Run("PaidAmountAccumulates", func(t *testing.T) {
			lead, err := fixtures.CreateTestLead(models.LeadStatusLead)
			require.NoError(t, err)
			sale, err := fixtures.CreateTestSale(lead, 1000, 0)
			require.NoError(t, err)

			result, err := flow.RecordPayment(ctx, sale.ID, &dto.RecordPaymentRequest{
				Amount:    250,
				Reference: "TRX-001",
			}, actor.ID, nil)
			require.NoError(t, err)
			assert.Equal(t, 250.0, result.PaidAmount)

			result, err = flow.RecordPayment(ctx, sale.ID, &dto.RecordPaymentRequest{
				Amount:    250,
				Reference: "TRX-002",
			}, actor.ID, nil)
			require.NoError(t, err)
			assert.Equal(t, 500.0, result.PaidAmount)
			require.Len(t, result.PaymentProofs, 2)
			assert.Equal(t, "TRX-002", result.PaymentProofs[1].Reference)

			history, err := saleRepo.HistoryBySale(ctx, sale.ID)
			require.NoError(t, err)
			assert.Len(t, history, 2)
		})

		t.Run("RejectsNonPositiveAmount", func(t *testing.T) {
			lead, err := fixtures.CreateTestLead(models.LeadStatusLead)
			require.NoError(t, err)
			sale, err := fixtures.CreateTestSale(lead, 1000, 0)
			require.NoError(t, err)

			_, err = flow.RecordPayment(ctx, sale.ID, &dto.RecordPaymentRequest{Amount: 0}, actor.ID, nil)
			require.Error(t, err)
			assert.True(t, IsInvalidPayment(err))

			_, err = flow.RecordPayment(ctx, sale.ID, &dto.RecordPaymentRequest{Amount: -50}, actor.ID, nil)
			require.Error(t, err)
			assert.True(t, IsInvalidPayment(err))
		})

		t.Run("MissingSale", func(t *testing.T) {
			_, err := flow.RecordPayment(ctx, 999999, &dto.RecordPaymentRequest{Amount: 100}, actor.ID, nil)
			require.Error(t, err)
			assert.True(t, IsSaleNotFound(err))
		})

		return nil
	})
	require.NoError(t, err)
}

func TestGrantAccess(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		flow := newSaleTestFlow(testDB)
		ctx := testingutil.CreateTestContext()

		actor, err := fixtures.CreateTestProfile(models.RoleAdmin)
		require.NoError(t, err)

		t.Run("DeniedBelowMinimumPayment", func(t *testing.T) {
			lead, err := fixtures.CreateTestLead(models.LeadStatusLead)
			require.NoError(t, err)
			sale, err := fixtures.CreateTestSale(lead, 1000, 499)
			require.NoError(t, err)

			_, err = flow.GrantAccess(ctx, sale.ID, nil, actor.ID, nil)
			require.Error(t, err)
			assert.True(t, IsInsufficientPayment(err))
		})

		t.Run("GrantedAtHalfWithFixedWindow", func(t *testing.T) {
			lead, err := fixtures.CreateTestLead(models.LeadStatusLead)
			require.NoError(t, err)
			sale, err := fixtures.CreateTestSale(lead, 1000, 500)
			require.NoError(t, err)

			result, err := flow.GrantAccess(ctx, sale.ID, nil, actor.ID, nil)
			require.NoError(t, err)
			assert.True(t, utils.IsTrue(result.AccessGranted))
			require.NotNil(t, result.AccessStartDate)
			require.NotNil(t, result.AccessEndDate)

			start, err := time.Parse(time.RFC3339, *result.AccessStartDate)
			require.NoError(t, err)
			end, err := time.Parse(time.RFC3339, *result.AccessEndDate)
			require.NoError(t, err)
			assert.Equal(t, utils.CourseAccessDuration, end.Sub(start))
		})

		t.Run("SecondGrantRejected", func(t *testing.T) {
			lead, err := fixtures.CreateTestLead(models.LeadStatusLead)
			require.NoError(t, err)
			sale, err := fixtures.CreateTestSale(lead, 1000, 1000)
			require.NoError(t, err)

			_, err = flow.GrantAccess(ctx, sale.ID, nil, actor.ID, nil)
			require.NoError(t, err)

			_, err = flow.GrantAccess(ctx, sale.ID, nil, actor.ID, nil)
			require.Error(t, err)
			assert.True(t, IsAccessAlreadyActive(err))
		})

		t.Run("ExemptionUnlocksAccessWithoutPayment", func(t *testing.T) {
			lead, err := fixtures.CreateTestLead(models.LeadStatusLead)
			require.NoError(t, err)
			sale, err := fixtures.CreateTestSale(lead, 1000, 0)
			require.NoError(t, err)

			result, err := flow.GrantExemption(ctx, sale.ID, nil, actor.ID, nil)
			require.NoError(t, err)
			assert.True(t, utils.IsTrue(result.ExemptionGranted))

			granted, err := flow.GrantAccess(ctx, sale.ID, nil, actor.ID, nil)
			require.NoError(t, err)
			assert.True(t, utils.IsTrue(granted.AccessGranted))
		})

		t.Run("MissingSale", func(t *testing.T) {
			_, err := flow.GrantAccess(ctx, 999999, nil, actor.ID, nil)
			require.Error(t, err)
			assert.True(t, IsSaleNotFound(err))
		})

		return nil
	})
	require.NoError(t, err)
}

func TestSaleQueries(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		flow := newSaleTestFlow(testDB)
		ctx := testingutil.CreateTestContext()

		actor, err := fixtures.CreateTestProfile(models.RoleCRMUser)
		require.NoError(t, err)

		lead, err := fixtures.CreateTestLead(models.LeadStatusLead)
		require.NoError(t, err)
		sale, err := fixtures.CreateTestSale(lead, 800, 400)
		require.NoError(t, err)

		t.Run("GetSaleByLead", func(t *testing.T) {
			result, err := flow.GetSaleByLead(ctx, lead.ID)
			require.NoError(t, err)
			assert.Equal(t, sale.ID, result.ID)
			assert.Equal(t, 800.0, result.TotalAmount)
		})

		t.Run("GetSaleByLeadMissing", func(t *testing.T) {
			other, err := fixtures.CreateTestLead(models.LeadStatusLead)
			require.NoError(t, err)

			_, err = flow.GetSaleByLead(ctx, other.ID)
			require.Error(t, err)
			assert.True(t, IsSaleNotFound(err))
		})

		t.Run("HistoryInOrder", func(t *testing.T) {
			_, err := flow.RecordPayment(ctx, sale.ID, &dto.RecordPaymentRequest{Amount: 100}, actor.ID, nil)
			require.NoError(t, err)
			_, err = flow.GrantAccess(ctx, sale.ID, nil, actor.ID, nil)
			require.NoError(t, err)

			history, err := flow.SaleHistory(ctx, sale.ID)
			require.NoError(t, err)
			require.Len(t, history, 2)
			assert.Equal(t, models.SaleActionPaymentRecorded, history[0].Action)
			assert.Equal(t, models.SaleActionAccessGranted, history[1].Action)
		})

		t.Run("ListFiltersByAccess", func(t *testing.T) {
			granted := true
			result, err := flow.ListSales(ctx, &dto.ListSalesRequest{AccessGranted: &granted})
			require.NoError(t, err)
			assert.Equal(t, int64(1), result.Total)
		})

		return nil
	})
	require.NoError(t, err)
}
