package businessflow

import (
	"testing"

	"github.com/cutroom-academy/cutroom-api/app/dto"
	"github.com/cutroom-academy/cutroom-api/models"
	"github.com/cutroom-academy/cutroom-api/repository"
	testingutil "github.com/cutroom-academy/cutroom-api/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLeadTestFlow(testDB *testingutil.TestDB) LeadFlow {
	leadRepo := repository.NewLeadRepository(testDB.DB)
	saleRepo := repository.NewSaleRepository(testDB.DB)
	auditRepo := repository.NewAuditLogRepository(testDB.DB)
	return NewLeadFlow(leadRepo, saleRepo, auditRepo, testDB.DB)
}

func TestLeadIntake(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		flow := newLeadTestFlow(testDB)
		ctx := testingutil.CreateTestContext()
		leadRepo := repository.NewLeadRepository(testDB.DB)

		t.Run("CreatesLeadWithHistory", func(t *testing.T) {
			email := "laura@example.com"
			source := "instagram"
			result, err := flow.IntakeLead(ctx, &dto.IntakeLeadRequest{
				FullName: "  Laura Gomez  ",
				Email:    &email,
				Source:   &source,
			}, NewClientMetadata("203.0.113.10", "Mozilla/5.0"))
			require.NoError(t, err)
			assert.Equal(t, "Laura Gomez", result.FullName)
			assert.Equal(t, "lead", result.Status)

			history, err := leadRepo.HistoryByLead(ctx, result.ID)
			require.NoError(t, err)
			require.Len(t, history, 1)
			assert.Equal(t, models.LeadStatusLead, history[0].NewStatus)
		})

		t.Run("PhoneAloneSuffices", func(t *testing.T) {
			phone := "+34600111222"
			result, err := flow.IntakeLead(ctx, &dto.IntakeLeadRequest{
				FullName: "Carlos Ruiz",
				Phone:    &phone,
			}, nil)
			require.NoError(t, err)
			assert.Equal(t, "Carlos Ruiz", result.FullName)
		})

		t.Run("NameRequired", func(t *testing.T) {
			email := "x@example.com"
			_, err := flow.IntakeLead(ctx, &dto.IntakeLeadRequest{FullName: "  ", Email: &email}, nil)
			require.Error(t, err)
			assert.True(t, IsLeadNameRequired(err))
		})

		t.Run("ContactRequired", func(t *testing.T) {
			empty := "   "
			_, err := flow.IntakeLead(ctx, &dto.IntakeLeadRequest{FullName: "Laura", Email: &empty}, nil)
			require.Error(t, err)
			assert.True(t, IsLeadContactRequired(err))
		})

		t.Run("NilRequest", func(t *testing.T) {
			_, err := flow.IntakeLead(ctx, nil, nil)
			assert.Error(t, err)
		})

		return nil
	})
	require.NoError(t, err)
}

func TestLeadChangeStatus(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		flow := newLeadTestFlow(testDB)
		ctx := testingutil.CreateTestContext()

		leadRepo := repository.NewLeadRepository(testDB.DB)
		saleRepo := repository.NewSaleRepository(testDB.DB)

		actor, err := fixtures.CreateTestProfile(models.RoleCRMUser)
		require.NoError(t, err)

		t.Run("LeadToOnboarding", func(t *testing.T) {
			lead, err := fixtures.CreateTestLead(models.LeadStatusLead)
			require.NoError(t, err)

			result, err := flow.ChangeStatus(ctx, lead.ID, &dto.ChangeLeadStatusRequest{
				NewStatus: "onboarding",
			}, actor.ID, nil)
			require.NoError(t, err)
			assert.Equal(t, "onboarding", result.Status)

			history, err := leadRepo.HistoryByLead(ctx, lead.ID)
			require.NoError(t, err)
			require.Len(t, history, 1)
			assert.Equal(t, models.LeadStatusLead, history[0].PreviousStatus)
			assert.Equal(t, models.LeadStatusOnboarding, history[0].NewStatus)
			assert.Equal(t, actor.ID, *history[0].PerformedBy)
		})

		t.Run("TransitionToSaleCreatesSale", func(t *testing.T) {
			lead, err := fixtures.CreateTestLead(models.LeadStatusOnboarding)
			require.NoError(t, err)

			plan := "installments"
			total := 1200.0
			result, err := flow.ChangeStatus(ctx, lead.ID, &dto.ChangeLeadStatusRequest{
				NewStatus:   "sale",
				PaymentPlan: &plan,
				TotalAmount: &total,
			}, actor.ID, nil)
			require.NoError(t, err)
			assert.Equal(t, "sale", result.Status)
			require.NotNil(t, result.SaleID)

			sale, err := saleRepo.ByLeadID(ctx, lead.ID)
			require.NoError(t, err)
			require.NotNil(t, sale)
			assert.Equal(t, "installments", sale.PaymentPlan)
			assert.Equal(t, 1200.0, sale.TotalAmount)
			assert.Zero(t, sale.PaidAmount)

			saleHistory, err := saleRepo.HistoryBySale(ctx, sale.ID)
			require.NoError(t, err)
			require.Len(t, saleHistory, 1)
			assert.Equal(t, models.SaleActionCreated, saleHistory[0].Action)
		})

		t.Run("DirectLeadToSale", func(t *testing.T) {
			lead, err := fixtures.CreateTestLead(models.LeadStatusLead)
			require.NoError(t, err)

			result, err := flow.ChangeStatus(ctx, lead.ID, &dto.ChangeLeadStatusRequest{
				NewStatus: "sale",
			}, actor.ID, nil)
			require.NoError(t, err)
			assert.Equal(t, "sale", result.Status)
			assert.NotNil(t, result.SaleID)
		})

		t.Run("SaleIsTerminal", func(t *testing.T) {
			lead, err := fixtures.CreateTestLead(models.LeadStatusLead)
			require.NoError(t, err)
			_, err = fixtures.CreateTestSale(lead, 1000, 0)
			require.NoError(t, err)

			_, err = flow.ChangeStatus(ctx, lead.ID, &dto.ChangeLeadStatusRequest{
				NewStatus: "rejected",
			}, actor.ID, nil)
			require.Error(t, err)
			assert.True(t, IsInvalidLeadTransition(err))
		})

		t.Run("RejectedIsTerminal", func(t *testing.T) {
			lead, err := fixtures.CreateTestLead(models.LeadStatusRejected)
			require.NoError(t, err)

			_, err = flow.ChangeStatus(ctx, lead.ID, &dto.ChangeLeadStatusRequest{
				NewStatus: "onboarding",
			}, actor.ID, nil)
			require.Error(t, err)
			assert.True(t, IsInvalidLeadTransition(err))
		})

		t.Run("UnknownStatusRejected", func(t *testing.T) {
			lead, err := fixtures.CreateTestLead(models.LeadStatusLead)
			require.NoError(t, err)

			_, err = flow.ChangeStatus(ctx, lead.ID, &dto.ChangeLeadStatusRequest{
				NewStatus: "closed",
			}, actor.ID, nil)
			require.Error(t, err)
			assert.True(t, IsInvalidLeadStatus(err))
		})

		t.Run("MissingLead", func(t *testing.T) {
			_, err := flow.ChangeStatus(ctx, 999999, &dto.ChangeLeadStatusRequest{
				NewStatus: "onboarding",
			}, actor.ID, nil)
			require.Error(t, err)
			assert.True(t, IsLeadNotFound(err))
		})

		return nil
	})
	require.NoError(t, err)
}

func TestLeadListAndUpdate(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		flow := newLeadTestFlow(testDB)
		ctx := testingutil.CreateTestContext()

		actor, err := fixtures.CreateTestProfile(models.RoleCRMUser)
		require.NoError(t, err)

		for i := 0; i < 3; i++ {
			_, err := fixtures.CreateTestLead(models.LeadStatusLead)
			require.NoError(t, err)
		}
		rejected, err := fixtures.CreateTestLead(models.LeadStatusRejected)
		require.NoError(t, err)

		t.Run("ListAll", func(t *testing.T) {
			result, err := flow.ListLeads(ctx, &dto.ListLeadsRequest{})
			require.NoError(t, err)
			assert.Equal(t, int64(4), result.Total)
			assert.Len(t, result.Items, 4)
		})

		t.Run("FilterByStatus", func(t *testing.T) {
			status := "rejected"
			result, err := flow.ListLeads(ctx, &dto.ListLeadsRequest{Status: &status})
			require.NoError(t, err)
			assert.Equal(t, int64(1), result.Total)
			assert.Equal(t, rejected.ID, result.Items[0].ID)
		})

		t.Run("UnknownStatusFilter", func(t *testing.T) {
			status := "closed"
			_, err := flow.ListLeads(ctx, &dto.ListLeadsRequest{Status: &status})
			require.Error(t, err)
			assert.True(t, IsInvalidLeadStatus(err))
		})

		t.Run("UpdateContactFields", func(t *testing.T) {
			lead, err := fixtures.CreateTestLead(models.LeadStatusLead)
			require.NoError(t, err)

			name := "Updated Name"
			notes := "Called twice, interested"
			result, err := flow.UpdateLead(ctx, lead.ID, &dto.UpdateLeadRequest{
				FullName: &name,
				Notes:    &notes,
			}, actor.ID, nil)
			require.NoError(t, err)
			assert.Equal(t, "Updated Name", result.FullName)
			require.NotNil(t, result.Notes)
			assert.Equal(t, notes, *result.Notes)
			// Untouched fields survive
			assert.Equal(t, lead.Email, result.Email)
		})

		t.Run("UpdateMissingLead", func(t *testing.T) {
			name := "Nobody"
			_, err := flow.UpdateLead(ctx, 999999, &dto.UpdateLeadRequest{FullName: &name}, actor.ID, nil)
			require.Error(t, err)
			assert.True(t, IsLeadNotFound(err))
		})

		return nil
	})
	require.NoError(t, err)
}
