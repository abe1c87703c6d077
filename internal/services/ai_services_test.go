package services_test

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"
	"testing"

	"vriksh/internal/apperrors"
	"vriksh/internal/models"
	"vriksh/internal/repositories"
	"vriksh/internal/services"
	"vriksh/pkg/openai"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockGateway is a mock implementation of services.Gateway
type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) Complete(ctx context.Context, system, user, image string) (string, error) {
	args := m.Called(ctx, system, user, image)
	return args.String(0), args.Error(1)
}

func TestIdentificationService_ImageInput(t *testing.T) {
	gw := new(MockGateway)
	svc := services.NewIdentificationService(gw, 1024, zerolog.Nop())
	ctx := context.Background()

	_, err := svc.Identify(ctx, services.IdentifyInput{})
	assert.Equal(t, "Either image_url or image_base64 is required", apperrors.PublicMessage(err, ""))

	_, err = svc.Identify(ctx, services.IdentifyInput{ImageURL: "https://x/y.jpg", ImageBase64: "aGVsbG8="})
	assert.Equal(t, "Provide only one of image_url or image_base64", apperrors.PublicMessage(err, ""))

	big := base64.StdEncoding.EncodeToString(make([]byte, 4096))
	_, err = svc.Identify(ctx, services.IdentifyInput{ImageBase64: big})
	assert.True(t, apperrors.Is(err, apperrors.KindValidation))

	gw.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestIdentificationService_WrapsRawBase64(t *testing.T) {
	gw := new(MockGateway)
	svc := services.NewIdentificationService(gw, 1<<20, zerolog.Nop())

	gw.On("Complete", mock.Anything, mock.Anything, mock.Anything, "data:image/jpeg;base64,aGVsbG8=").Return(validDarshan, nil).Once()
	gw.On("Complete", mock.Anything, mock.Anything, mock.Anything, "data:image/png;base64,aGVsbG8=").Return(validDarshan, nil).Once()
	gw.On("Complete", mock.Anything, mock.Anything, mock.Anything, "https://example.com/tulsi.jpg").Return("```json\n"+validDarshan+"\n```", nil).Once()

	for _, in := range []services.IdentifyInput{
		{ImageBase64: "aGVsbG8="},
		{ImageBase64: "data:image/png;base64,aGVsbG8="},
		{ImageURL: " https://example.com/tulsi.jpg "},
	} {
		res, err := svc.Identify(context.Background(), in)
		require.NoError(t, err)
		assert.Equal(t, "Holy Basil", res.CommonName)
	}
	gw.AssertExpectations(t)
}

func TestIdentificationService_GatewayFailures(t *testing.T) {
	gw := new(MockGateway)
	svc := services.NewIdentificationService(gw, 0, zerolog.Nop())
	in := services.IdentifyInput{ImageURL: "https://example.com/a.jpg"}

	gw.On("Complete", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return("", openai.ErrRateLimited).Once()
	_, err := svc.Identify(context.Background(), in)
	assert.ErrorIs(t, err, services.ErrRateLimited)
	assert.True(t, apperrors.Is(err, apperrors.KindRateLimited))

	gw.On("Complete", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return("", openai.ErrUpstream).Once()
	_, err = svc.Identify(context.Background(), in)
	assert.True(t, apperrors.Is(err, apperrors.KindUpstream))

	gw.On("Complete", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(`{"common_name":"Basil"}`, nil).Once()
	res, err := svc.Identify(context.Background(), in)
	assert.Nil(t, res)
	assert.True(t, apperrors.Is(err, apperrors.KindUpstreamFormat))
}

func newDiagnosisService(t *testing.T, gw services.Gateway) (*services.DiagnosisService, *services.PlantService) {
	t.Helper()
	db := newTestDB(t)
	plants := repositories.NewGORMPlantRepository(db)
	checks := repositories.NewGORMHealthCheckRepository(db)
	return services.NewDiagnosisService(gw, plants, checks, nil, zerolog.Nop()),
		services.NewPlantService(plants, nil, zerolog.Nop())
}

func TestDiagnosisService_SavesForOwnedPlant(t *testing.T) {
	gw := new(MockGateway)
	diag, plants := newDiagnosisService(t, gw)
	ctx := context.Background()

	plantID, err := plants.Create(ctx, "u1", models.PlantInput{Name: "Tulsi", Species: "Ocimum"})
	require.NoError(t, err)

	gw.On("Complete", ctx, mock.Anything, mock.MatchedBy(func(p string) bool {
		return strings.Contains(p, "Tulsi") && strings.Contains(p, "yellow leaves")
	}), "").Return(validChikitsa, nil)

	res, err := diag.Diagnose(ctx, "u1", models.DiagnosisInput{PlantName: "Tulsi", Symptoms: "yellow leaves", PlantID: &plantID})
	require.NoError(t, err)
	assert.True(t, res.Saved)
	assert.Equal(t, "Overwatering leading to root rot", res.Chikitsa.Diagnosis)

	plant, err := plants.Get(ctx, "u1", plantID)
	require.NoError(t, err)
	assert.Equal(t, models.HealthWarning, plant.HealthStatus)

	history, err := diag.History(ctx, "u1", plantID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.JSONEq(t, `["Soggy soil"]`, string(history[0].Symptoms))

	_, err = diag.History(ctx, "intruder", plantID)
	assert.ErrorIs(t, err, services.ErrPlantNotFound)

	res, err = diag.Diagnose(ctx, "intruder", models.DiagnosisInput{PlantName: "Tulsi", Symptoms: "yellow leaves", PlantID: &plantID})
	require.NoError(t, err)
	assert.False(t, res.Saved)

	history, err = diag.History(ctx, "u1", plantID)
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestDiagnosisService_Validation(t *testing.T) {
	gw := new(MockGateway)
	diag, _ := newDiagnosisService(t, gw)

	_, err := diag.Diagnose(context.Background(), "u1", models.DiagnosisInput{PlantName: "Tulsi"})
	assert.Equal(t, "plant_name and symptoms are required", apperrors.PublicMessage(err, ""))

	gw.On("Complete", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return("not json", nil).Once()
	res, err := diag.Diagnose(context.Background(), "u1", models.DiagnosisInput{PlantName: "Tulsi", Symptoms: "spots"})
	assert.Nil(t, res)
	assert.ErrorIs(t, err, services.ErrUpstreamParse)
}

func TestCareScheduleService_Defaults(t *testing.T) {
	gw := new(MockGateway)
	svc := services.NewCareScheduleService(gw, zerolog.Nop())

	gw.On("Complete", mock.Anything, mock.Anything, mock.MatchedBy(func(p string) bool {
		return strings.Contains(p, "Location: General") &&
			strings.Contains(p, "Season: Spring") &&
			strings.Contains(p, "Setting: indoor")
	}), "").Return(validSeva, nil).Once()

	res, err := svc.Schedule(context.Background(), models.CareScheduleInput{PlantName: "Tulsi"})
	require.NoError(t, err)
	assert.Equal(t, "Water at sunrise", *res.VaidyaWisdom)
	gw.AssertExpectations(t)

	_, err = svc.Schedule(context.Background(), models.CareScheduleInput{})
	assert.Equal(t, "plant_name is required", apperrors.PublicMessage(err, ""))

	_, err = svc.Schedule(context.Background(), models.CareScheduleInput{PlantName: "Tulsi", Season: "Rainy"})
	assert.True(t, apperrors.Is(err, apperrors.KindValidation))

	gw.On("Complete", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return("", errors.New("dial tcp: refused")).Once()
	_, err = svc.Schedule(context.Background(), models.CareScheduleInput{PlantName: "Tulsi"})
	assert.True(t, apperrors.Is(err, apperrors.KindUpstream))
}
