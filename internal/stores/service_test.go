package stores

import (
	"context"
	"errors"
	"testing"

	"github.com/angelmondragon/ims-backend/internal/users"
	"github.com/angelmondragon/ims-backend/pkg/auth"
	"github.com/angelmondragon/ims-backend/pkg/db/models"
	"github.com/angelmondragon/ims-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/ims-backend/pkg/errors"
	"github.com/google/uuid"
)

func TestNewServiceRequiresDependencies(t *testing.T) {
	if _, err := NewService(nil, stubHasher{}); err == nil {
		t.Fatal("expected error creating service without users repo")
	}
	if _, err := NewService(&stubUsersRepo{}, nil); err == nil {
		t.Fatal("expected error creating service without hasher")
	}
}

func TestListStoresRequiresAdmin(t *testing.T) {
	svc := mustService(t, &stubUsersRepo{})
	_, err := svc.ListStores(context.Background(), auth.Context{UserID: uuid.New(), Role: enums.RoleStoreManager})
	if !pkgerrors.IsCode(err, pkgerrors.CodeForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestListStoresMapsManagers(t *testing.T) {
	name := "Corner"
	repo := &stubUsersRepo{managers: []models.User{{ID: uuid.New(), Email: "m@example.com", StoreName: &name, Role: enums.RoleStoreManager}}}
	svc := mustService(t, repo)

	out, err := svc.ListStores(context.Background(), adminActor())
	if err != nil {
		t.Fatalf("list stores: %v", err)
	}
	if len(out) != 1 || out[0].StoreName != "Corner" || out[0].Email != "m@example.com" {
		t.Fatalf("unexpected stores %+v", out)
	}
	if repo.listedRole != enums.RoleStoreManager {
		t.Fatalf("expected store manager role lookup, got %s", repo.listedRole)
	}
}

func TestCreateStoreHashesPasswordAndAssignsRole(t *testing.T) {
	repo := &stubUsersRepo{}
	svc := mustService(t, repo)

	dto, err := svc.CreateStore(context.Background(), adminActor(), validInput())
	if err != nil {
		t.Fatalf("create store: %v", err)
	}
	if repo.created == nil {
		t.Fatal("expected user to be created")
	}
	if repo.created.PasswordHash != "hashed:supersecret" {
		t.Fatalf("expected hashed password, got %q", repo.created.PasswordHash)
	}
	if repo.created.Role != enums.RoleStoreManager {
		t.Fatalf("expected store manager role, got %s", repo.created.Role)
	}
	if repo.created.Email != "new@example.com" {
		t.Fatalf("expected normalized email, got %s", repo.created.Email)
	}
	if dto.StoreName != "Downtown" {
		t.Fatalf("unexpected dto %+v", dto)
	}
}

func TestCreateStoreDuplicateEmailConflicts(t *testing.T) {
	repo := &stubUsersRepo{existing: &models.User{ID: uuid.New(), Email: "new@example.com"}}
	svc := mustService(t, repo)

	_, err := svc.CreateStore(context.Background(), adminActor(), validInput())
	if !pkgerrors.IsCode(err, pkgerrors.CodeConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
	if repo.created != nil {
		t.Fatal("no user should be created on conflict")
	}
}

func TestCreateStoreValidation(t *testing.T) {
	svc := mustService(t, &stubUsersRepo{})
	cases := map[string]func(*CreateStoreInput){
		"short password": func(in *CreateStoreInput) { in.Password = "short" },
		"missing store":  func(in *CreateStoreInput) { in.StoreName = "  " },
		"bad email":      func(in *CreateStoreInput) { in.Email = "nope" },
		"missing name":   func(in *CreateStoreInput) { in.FirstName = "" },
	}
	for name, mutate := range cases {
		input := validInput()
		mutate(&input)
		if _, err := svc.CreateStore(context.Background(), adminActor(), input); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
			t.Fatalf("%s: expected validation error, got %v", name, err)
		}
	}
}

func TestCreateStoreRequiresAdmin(t *testing.T) {
	svc := mustService(t, &stubUsersRepo{})
	_, err := svc.CreateStore(context.Background(), auth.Context{UserID: uuid.New(), Role: enums.RoleStaff}, validInput())
	if !pkgerrors.IsCode(err, pkgerrors.CodeForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestCreateStoreDependencyError(t *testing.T) {
	svc := mustService(t, &stubUsersRepo{findErr: errors.New("db down")})
	_, err := svc.CreateStore(context.Background(), adminActor(), validInput())
	if !pkgerrors.IsCode(err, pkgerrors.CodeDependency) {
		t.Fatalf("expected dependency error, got %v", err)
	}
}

func mustService(t *testing.T, repo *stubUsersRepo) Service {
	t.Helper()
	svc, err := NewService(repo, stubHasher{})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func adminActor() auth.Context {
	return auth.Context{UserID: uuid.New(), Role: enums.RoleAdmin}
}

func validInput() CreateStoreInput {
	return CreateStoreInput{
		FirstName: "Nia",
		LastName:  "Park",
		Email:     " New@Example.com",
		Password:  "supersecret",
		StoreName: "Downtown",
	}
}

type stubHasher struct{}

func (stubHasher) Hash(password string) (string, error) {
	return "hashed:" + password, nil
}

type stubUsersRepo struct {
	existing   *models.User
	findErr    error
	managers   []models.User
	listedRole enums.Role
	created    *models.User
}

func (s *stubUsersRepo) FindByEmail(context.Context, string) (*models.User, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	if s.existing != nil {
		return s.existing, nil
	}
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
}

func (s *stubUsersRepo) Create(_ context.Context, dto users.CreateUserDTO) (*models.User, error) {
	s.created = dto.ToModel()
	s.created.ID = uuid.New()
	return s.created, nil
}

func (s *stubUsersRepo) ListByRole(_ context.Context, role enums.Role) ([]models.User, error) {
	s.listedRole = role
	return s.managers, nil
}
