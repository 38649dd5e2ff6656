package mock

import (
	context "context"
	reflect "reflect"

	models "github.com/questforge/onboard-quest/onboardquest/database/models"
	repositories "github.com/questforge/onboard-quest/onboardquest/database/repositories"
	gomock "go.uber.org/mock/gomock"
)

// MockBadgeRepository is a mock of BadgeRepository interface.
type MockBadgeRepository struct {
	ctrl     *gomock.Controller
	recorder *MockBadgeRepositoryMockRecorder
	isgomock struct{}
}

// MockBadgeRepositoryMockRecorder is the mock recorder for MockBadgeRepository.
type MockBadgeRepositoryMockRecorder struct {
	mock *MockBadgeRepository
}

// NewMockBadgeRepository creates a new mock instance.
func NewMockBadgeRepository(ctrl *gomock.Controller) *MockBadgeRepository {
	mock := &MockBadgeRepository{ctrl: ctrl}
	mock.recorder = &MockBadgeRepositoryMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockBadgeRepository) EXPECT() *MockBadgeRepositoryMockRecorder {
	return m.recorder
}

// ListByUser mocks base method.
func (m *MockBadgeRepository) ListByUser(ctx context.Context, userID string) ([]*models.BadgeUnlock, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "ListByUser", ctx, userID)
	ret0, _ := ret[0].([]*models.BadgeUnlock)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// ListByUser indicates an expected call of ListByUser.
func (mr *MockBadgeRepositoryMockRecorder) ListByUser(ctx, userID any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "ListByUser", reflect.TypeOf((*MockBadgeRepository)(nil).ListByUser), ctx, userID)
}

// Unlock mocks base method.
func (m *MockBadgeRepository) Unlock(ctx context.Context, userID string, badgeID string) (*models.BadgeUnlock, bool, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Unlock", ctx, userID, badgeID)
	ret0, _ := ret[0].(*models.BadgeUnlock)
	ret1, _ := ret[1].(bool)
	ret2, _ := ret[2].(error)
	return ret0, ret1, ret2
}

// Unlock indicates an expected call of Unlock.
func (mr *MockBadgeRepositoryMockRecorder) Unlock(ctx, userID, badgeID any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Unlock", reflect.TypeOf((*MockBadgeRepository)(nil).Unlock), ctx, userID, badgeID)
}

// MockProgressRepository is a mock of ProgressRepository interface.
type MockProgressRepository struct {
	ctrl     *gomock.Controller
	recorder *MockProgressRepositoryMockRecorder
	isgomock struct{}
}

// MockProgressRepositoryMockRecorder is the mock recorder for MockProgressRepository.
type MockProgressRepositoryMockRecorder struct {
	mock *MockProgressRepository
}

// NewMockProgressRepository creates a new mock instance.
func NewMockProgressRepository(ctrl *gomock.Controller) *MockProgressRepository {
	mock := &MockProgressRepository{ctrl: ctrl}
	mock.recorder = &MockProgressRepositoryMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockProgressRepository) EXPECT() *MockProgressRepositoryMockRecorder {
	return m.recorder
}

// AddXP mocks base method.
func (m *MockProgressRepository) AddXP(ctx context.Context, userID string, xp int64) (*models.Progress, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "AddXP", ctx, userID, xp)
	ret0, _ := ret[0].(*models.Progress)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// AddXP indicates an expected call of AddXP.
func (mr *MockProgressRepositoryMockRecorder) AddXP(ctx, userID, xp any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "AddXP", reflect.TypeOf((*MockProgressRepository)(nil).AddXP), ctx, userID, xp)
}

// CompleteModule mocks base method.
func (m *MockProgressRepository) CompleteModule(ctx context.Context, userID string, moduleID string, xp int64) (*models.Progress, bool, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "CompleteModule", ctx, userID, moduleID, xp)
	ret0, _ := ret[0].(*models.Progress)
	ret1, _ := ret[1].(bool)
	ret2, _ := ret[2].(error)
	return ret0, ret1, ret2
}

// CompleteModule indicates an expected call of CompleteModule.
func (mr *MockProgressRepositoryMockRecorder) CompleteModule(ctx, userID, moduleID, xp any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "CompleteModule", reflect.TypeOf((*MockProgressRepository)(nil).CompleteModule), ctx, userID, moduleID, xp)
}

// CompleteQuiz mocks base method.
func (m *MockProgressRepository) CompleteQuiz(ctx context.Context, result *models.QuizResult, xp int64) (*models.Progress, bool, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "CompleteQuiz", ctx, result, xp)
	ret0, _ := ret[0].(*models.Progress)
	ret1, _ := ret[1].(bool)
	ret2, _ := ret[2].(error)
	return ret0, ret1, ret2
}

// CompleteQuiz indicates an expected call of CompleteQuiz.
func (mr *MockProgressRepositoryMockRecorder) CompleteQuiz(ctx, result, xp any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "CompleteQuiz", reflect.TypeOf((*MockProgressRepository)(nil).CompleteQuiz), ctx, result, xp)
}

// GetOrCreate mocks base method.
func (m *MockProgressRepository) GetOrCreate(ctx context.Context, userID string) (*models.Progress, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetOrCreate", ctx, userID)
	ret0, _ := ret[0].(*models.Progress)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// GetOrCreate indicates an expected call of GetOrCreate.
func (mr *MockProgressRepositoryMockRecorder) GetOrCreate(ctx, userID any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetOrCreate", reflect.TypeOf((*MockProgressRepository)(nil).GetOrCreate), ctx, userID)
}

// LevelDistribution mocks base method.
func (m *MockProgressRepository) LevelDistribution(ctx context.Context) ([]models.CountByKey, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "LevelDistribution", ctx)
	ret0, _ := ret[0].([]models.CountByKey)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// LevelDistribution indicates an expected call of LevelDistribution.
func (mr *MockProgressRepositoryMockRecorder) LevelDistribution(ctx any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "LevelDistribution", reflect.TypeOf((*MockProgressRepository)(nil).LevelDistribution), ctx)
}

// ListInInsertionOrder mocks base method.
func (m *MockProgressRepository) ListInInsertionOrder(ctx context.Context) ([]models.LeaderboardRow, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "ListInInsertionOrder", ctx)
	ret0, _ := ret[0].([]models.LeaderboardRow)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// ListInInsertionOrder indicates an expected call of ListInInsertionOrder.
func (mr *MockProgressRepositoryMockRecorder) ListInInsertionOrder(ctx any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "ListInInsertionOrder", reflect.TypeOf((*MockProgressRepository)(nil).ListInInsertionOrder), ctx)
}

// ModuleCompletionCounts mocks base method.
func (m *MockProgressRepository) ModuleCompletionCounts(ctx context.Context) ([]models.CountByKey, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "ModuleCompletionCounts", ctx)
	ret0, _ := ret[0].([]models.CountByKey)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// ModuleCompletionCounts indicates an expected call of ModuleCompletionCounts.
func (mr *MockProgressRepositoryMockRecorder) ModuleCompletionCounts(ctx any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "ModuleCompletionCounts", reflect.TypeOf((*MockProgressRepository)(nil).ModuleCompletionCounts), ctx)
}

// Stats mocks base method.
func (m *MockProgressRepository) Stats(ctx context.Context) (*repositories.ProgressStats, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Stats", ctx)
	ret0, _ := ret[0].(*repositories.ProgressStats)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// Stats indicates an expected call of Stats.
func (mr *MockProgressRepositoryMockRecorder) Stats(ctx any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Stats", reflect.TypeOf((*MockProgressRepository)(nil).Stats), ctx)
}

// UnlockLocation mocks base method.
func (m *MockProgressRepository) UnlockLocation(ctx context.Context, userID string, locationID string) (*models.Progress, bool, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "UnlockLocation", ctx, userID, locationID)
	ret0, _ := ret[0].(*models.Progress)
	ret1, _ := ret[1].(bool)
	ret2, _ := ret[2].(error)
	return ret0, ret1, ret2
}

// UnlockLocation indicates an expected call of UnlockLocation.
func (mr *MockProgressRepositoryMockRecorder) UnlockLocation(ctx, userID, locationID any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "UnlockLocation", reflect.TypeOf((*MockProgressRepository)(nil).UnlockLocation), ctx, userID, locationID)
}

// Upsert mocks base method.
func (m *MockProgressRepository) Upsert(ctx context.Context, progress *models.Progress) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Upsert", ctx, progress)
	ret0, _ := ret[0].(error)
	return ret0
}

// Upsert indicates an expected call of Upsert.
func (mr *MockProgressRepositoryMockRecorder) Upsert(ctx, progress any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Upsert", reflect.TypeOf((*MockProgressRepository)(nil).Upsert), ctx, progress)
}

// MockQuizResultRepository is a mock of QuizResultRepository interface.
type MockQuizResultRepository struct {
	ctrl     *gomock.Controller
	recorder *MockQuizResultRepositoryMockRecorder
	isgomock struct{}
}

// MockQuizResultRepositoryMockRecorder is the mock recorder for MockQuizResultRepository.
type MockQuizResultRepositoryMockRecorder struct {
	mock *MockQuizResultRepository
}

// NewMockQuizResultRepository creates a new mock instance.
func NewMockQuizResultRepository(ctrl *gomock.Controller) *MockQuizResultRepository {
	mock := &MockQuizResultRepository{ctrl: ctrl}
	mock.recorder = &MockQuizResultRepositoryMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockQuizResultRepository) EXPECT() *MockQuizResultRepositoryMockRecorder {
	return m.recorder
}

// AveragesByModule mocks base method.
func (m *MockQuizResultRepository) AveragesByModule(ctx context.Context) ([]models.AverageByKey, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "AveragesByModule", ctx)
	ret0, _ := ret[0].([]models.AverageByKey)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// AveragesByModule indicates an expected call of AveragesByModule.
func (mr *MockQuizResultRepositoryMockRecorder) AveragesByModule(ctx any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "AveragesByModule", reflect.TypeOf((*MockQuizResultRepository)(nil).AveragesByModule), ctx)
}

// CountByUser mocks base method.
func (m *MockQuizResultRepository) CountByUser(ctx context.Context, userID string) (int, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "CountByUser", ctx, userID)
	ret0, _ := ret[0].(int)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// CountByUser indicates an expected call of CountByUser.
func (mr *MockQuizResultRepositoryMockRecorder) CountByUser(ctx, userID any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "CountByUser", reflect.TypeOf((*MockQuizResultRepository)(nil).CountByUser), ctx, userID)
}

// ListByUser mocks base method.
func (m *MockQuizResultRepository) ListByUser(ctx context.Context, userID string) ([]*models.QuizResult, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "ListByUser", ctx, userID)
	ret0, _ := ret[0].([]*models.QuizResult)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// ListByUser indicates an expected call of ListByUser.
func (mr *MockQuizResultRepositoryMockRecorder) ListByUser(ctx, userID any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "ListByUser", reflect.TypeOf((*MockQuizResultRepository)(nil).ListByUser), ctx, userID)
}

// MockTrainingModuleRepository is a mock of TrainingModuleRepository interface.
type MockTrainingModuleRepository struct {
	ctrl     *gomock.Controller
	recorder *MockTrainingModuleRepositoryMockRecorder
	isgomock struct{}
}

// MockTrainingModuleRepositoryMockRecorder is the mock recorder for MockTrainingModuleRepository.
type MockTrainingModuleRepositoryMockRecorder struct {
	mock *MockTrainingModuleRepository
}

// NewMockTrainingModuleRepository creates a new mock instance.
func NewMockTrainingModuleRepository(ctrl *gomock.Controller) *MockTrainingModuleRepository {
	mock := &MockTrainingModuleRepository{ctrl: ctrl}
	mock.recorder = &MockTrainingModuleRepositoryMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockTrainingModuleRepository) EXPECT() *MockTrainingModuleRepositoryMockRecorder {
	return m.recorder
}

// GetByID mocks base method.
func (m *MockTrainingModuleRepository) GetByID(ctx context.Context, moduleID string) (*models.TrainingModule, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetByID", ctx, moduleID)
	ret0, _ := ret[0].(*models.TrainingModule)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// GetByID indicates an expected call of GetByID.
func (mr *MockTrainingModuleRepositoryMockRecorder) GetByID(ctx, moduleID any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetByID", reflect.TypeOf((*MockTrainingModuleRepository)(nil).GetByID), ctx, moduleID)
}

// List mocks base method.
func (m *MockTrainingModuleRepository) List(ctx context.Context) ([]*models.TrainingModule, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "List", ctx)
	ret0, _ := ret[0].([]*models.TrainingModule)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// List indicates an expected call of List.
func (mr *MockTrainingModuleRepositoryMockRecorder) List(ctx any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "List", reflect.TypeOf((*MockTrainingModuleRepository)(nil).List), ctx)
}

// Upsert mocks base method.
func (m *MockTrainingModuleRepository) Upsert(ctx context.Context, module *models.TrainingModule) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Upsert", ctx, module)
	ret0, _ := ret[0].(error)
	return ret0
}

// Upsert indicates an expected call of Upsert.
func (mr *MockTrainingModuleRepositoryMockRecorder) Upsert(ctx, module any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Upsert", reflect.TypeOf((*MockTrainingModuleRepository)(nil).Upsert), ctx, module)
}

// MockUserRepository is a mock of UserRepository interface.
type MockUserRepository struct {
	ctrl     *gomock.Controller
	recorder *MockUserRepositoryMockRecorder
	isgomock struct{}
}

// MockUserRepositoryMockRecorder is the mock recorder for MockUserRepository.
type MockUserRepositoryMockRecorder struct {
	mock *MockUserRepository
}

// NewMockUserRepository creates a new mock instance.
func NewMockUserRepository(ctrl *gomock.Controller) *MockUserRepository {
	mock := &MockUserRepository{ctrl: ctrl}
	mock.recorder = &MockUserRepositoryMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockUserRepository) EXPECT() *MockUserRepositoryMockRecorder {
	return m.recorder
}

// CountByDepartment mocks base method.
func (m *MockUserRepository) CountByDepartment(ctx context.Context) ([]models.CountByKey, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "CountByDepartment", ctx)
	ret0, _ := ret[0].([]models.CountByKey)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// CountByDepartment indicates an expected call of CountByDepartment.
func (mr *MockUserRepositoryMockRecorder) CountByDepartment(ctx any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "CountByDepartment", reflect.TypeOf((*MockUserRepository)(nil).CountByDepartment), ctx)
}

// CreateWithProgress mocks base method.
func (m *MockUserRepository) CreateWithProgress(ctx context.Context, user *models.User, progress *models.Progress) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "CreateWithProgress", ctx, user, progress)
	ret0, _ := ret[0].(error)
	return ret0
}

// CreateWithProgress indicates an expected call of CreateWithProgress.
func (mr *MockUserRepositoryMockRecorder) CreateWithProgress(ctx, user, progress any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "CreateWithProgress", reflect.TypeOf((*MockUserRepository)(nil).CreateWithProgress), ctx, user, progress)
}

// GetByID mocks base method.
func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetByID", ctx, id)
	ret0, _ := ret[0].(*models.User)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// GetByID indicates an expected call of GetByID.
func (mr *MockUserRepositoryMockRecorder) GetByID(ctx, id any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetByID", reflect.TypeOf((*MockUserRepository)(nil).GetByID), ctx, id)
}

// GetByUsername mocks base method.
func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetByUsername", ctx, username)
	ret0, _ := ret[0].(*models.User)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// GetByUsername indicates an expected call of GetByUsername.
func (mr *MockUserRepositoryMockRecorder) GetByUsername(ctx, username any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetByUsername", reflect.TypeOf((*MockUserRepository)(nil).GetByUsername), ctx, username)
}

// ListEmployees mocks base method.
func (m *MockUserRepository) ListEmployees(ctx context.Context, department string) ([]models.EmployeeProgress, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "ListEmployees", ctx, department)
	ret0, _ := ret[0].([]models.EmployeeProgress)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// ListEmployees indicates an expected call of ListEmployees.
func (mr *MockUserRepositoryMockRecorder) ListEmployees(ctx, department any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "ListEmployees", reflect.TypeOf((*MockUserRepository)(nil).ListEmployees), ctx, department)
}

// UpdateProfile mocks base method.
func (m *MockUserRepository) UpdateProfile(ctx context.Context, user *models.User) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "UpdateProfile", ctx, user)
	ret0, _ := ret[0].(error)
	return ret0
}

// UpdateProfile indicates an expected call of UpdateProfile.
func (mr *MockUserRepositoryMockRecorder) UpdateProfile(ctx, user any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "UpdateProfile", reflect.TypeOf((*MockUserRepository)(nil).UpdateProfile), ctx, user)
}

// Upsert mocks base method.
func (m *MockUserRepository) Upsert(ctx context.Context, user *models.User) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Upsert", ctx, user)
	ret0, _ := ret[0].(error)
	return ret0
}

// Upsert indicates an expected call of Upsert.
func (mr *MockUserRepositoryMockRecorder) Upsert(ctx, user any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Upsert", reflect.TypeOf((*MockUserRepository)(nil).Upsert), ctx, user)
}
