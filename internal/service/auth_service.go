package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"jumboscan/internal/config"
	"jumboscan/internal/dto"
	"jumboscan/internal/model"
	"jumboscan/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrEmailExiste           = errors.New("email existe")
	ErrCredencialesInvalidas = errors.New("credenciales invalidas")
	ErrUsuarioNoEncontrado   = errors.New("usuario no encontrado")
)

const bcryptCost = 12

type AuthService interface {
	Registrar(ctx context.Context, req dto.RegistroRequest) error
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
	Perfil(ctx context.Context, id uint) (*dto.UsuarioResponse, error)
}

type authService struct {
	repo repository.UsuarioRepository
	cfg  *config.Config
}

func NewAuthService(repo repository.UsuarioRepository, cfg *config.Config) AuthService {
	return &authService{repo: repo, cfg: cfg}
}

func (s *authService) Registrar(ctx context.Context, req dto.RegistroRequest) error {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return ErrEmailExiste
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return err
	}
	u := &model.Usuario{
		Nombre:       strings.TrimSpace(req.Nombre),
		Email:        email,
		PasswordHash: string(hash),
	}
	if err := s.repo.Create(ctx, u); err != nil {
		// lost a race with a concurrent registration
		if errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(strings.ToUpper(err.Error()), "UNIQUE") {
			return ErrEmailExiste
		}
		return err
	}
	return nil
}

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, ErrCredencialesInvalidas
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrCredencialesInvalidas
	}

	token, err := s.generateToken(user, time.Duration(s.cfg.JWTExpirationHours)*time.Hour)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Mensaje: "Login exitoso",
		Token:   token,
		Usuario: dto.UsuarioResumen{Nombre: user.Nombre, Email: user.Email},
	}, nil
}

func (s *authService) Perfil(ctx context.Context, id uint) (*dto.UsuarioResponse, error) {
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrUsuarioNoEncontrado
	}
	return &dto.UsuarioResponse{ID: u.ID, Nombre: u.Nombre, Email: u.Email}, nil
}

func (s *authService) generateToken(user *model.Usuario, dur time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"id":     user.ID,
		"nombre": user.Nombre,
		"email":  user.Email,
		"exp":    now.Add(dur).Unix(),
		"iat":    now.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

// HashPassword is shared with the seeduser/genhash commands.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	return string(hash), err
}
