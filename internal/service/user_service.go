package service

import (
	"errors"
	"strings"

	"github.com/wisnuvb/calmsey/internal/db"
	"github.com/wisnuvb/calmsey/internal/role"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUsernameTaken      = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrRoleInvalid        = errors.New("unknown role")
	ErrLastSuperAdmin     = errors.New("the last super admin cannot be removed")
)

// UserService 管理后台账号与登录校验。
type UserService struct {
	db *gorm.DB
}

// NewUserService creates a UserService instance.
func NewUserService(gdb *gorm.DB) *UserService {
	return &UserService{db: gdb}
}

// Authenticate checks a username/password pair against the stored bcrypt
// hash. Inactive accounts cannot log in.
func (s *UserService) Authenticate(username, password string) (*db.User, error) {
	var user db.User
	err := s.db.Where("username = ?", strings.TrimSpace(username)).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return &user, nil
}

// List returns every account for the admin user table.
func (s *UserService) List() ([]db.User, error) {
	var users []db.User
	if err := s.db.Order("username ASC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// Get fetches one account by id.
func (s *UserService) Get(id uint) (*db.User, error) {
	var user db.User
	if err := s.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// GetByUsername fetches one account by username.
func (s *UserService) GetByUsername(username string) (*db.User, error) {
	var user db.User
	err := s.db.Where("username = ?", strings.TrimSpace(username)).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// UserInput carries admin edits to an account.
type UserInput struct {
	Username string
	Email    string
	Password string
	Role     string
	IsActive bool
}

// Create registers a new account with a bcrypt hashed password.
func (s *UserService) Create(input UserInput) (*db.User, error) {
	username := strings.TrimSpace(input.Username)
	if username == "" {
		return nil, errors.New("username is required")
	}
	if strings.TrimSpace(input.Password) == "" {
		return nil, errors.New("password is required")
	}
	parsed, err := role.Parse(input.Role)
	if err != nil {
		return nil, ErrRoleInvalid
	}

	var existing db.User
	if err := s.db.Where("username = ?", username).First(&existing).Error; err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := db.User{
		Username: username,
		Email:    strings.TrimSpace(input.Email),
		Password: string(hashed),
		Role:     string(parsed),
		IsActive: input.IsActive,
	}
	if err := s.db.Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// Update edits an account. An empty password keeps the current hash. The
// last active super admin can neither be demoted nor deactivated.
func (s *UserService) Update(id uint, input UserInput) (*db.User, error) {
	user, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	parsed, err := role.Parse(input.Role)
	if err != nil {
		return nil, ErrRoleInvalid
	}

	demoting := user.Role == string(role.SuperAdmin) &&
		(parsed != role.SuperAdmin || !input.IsActive)
	if demoting {
		others, err := s.countOtherActiveSuperAdmins(user.ID)
		if err != nil {
			return nil, err
		}
		if others == 0 {
			return nil, ErrLastSuperAdmin
		}
	}

	if email := strings.TrimSpace(input.Email); email != "" {
		user.Email = email
	}
	if password := strings.TrimSpace(input.Password); password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		user.Password = string(hashed)
	}
	user.Role = string(parsed)
	user.IsActive = input.IsActive

	if err := s.db.Save(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// Delete removes an account, refusing to drop the last active super admin.
func (s *UserService) Delete(id uint) error {
	user, err := s.Get(id)
	if err != nil {
		return err
	}

	if user.Role == string(role.SuperAdmin) {
		others, err := s.countOtherActiveSuperAdmins(user.ID)
		if err != nil {
			return err
		}
		if others == 0 {
			return ErrLastSuperAdmin
		}
	}
	return s.db.Delete(user).Error
}

// HasSuperAdmin reports whether an active super admin account exists.
// 前端以此判断是否进入初始化引导流程。
func (s *UserService) HasSuperAdmin() (bool, error) {
	var count int64
	err := s.db.Model(&db.User{}).
		Where("role = ? AND is_active = ?", string(role.SuperAdmin), true).
		Count(&count).Error
	return count > 0, err
}

func (s *UserService) countOtherActiveSuperAdmins(excludeID uint) (int64, error) {
	var count int64
	err := s.db.Model(&db.User{}).
		Where("role = ? AND is_active = ? AND id <> ?", string(role.SuperAdmin), true, excludeID).
		Count(&count).Error
	return count, err
}
