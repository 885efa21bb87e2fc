package service

import (
	"context"
	"testing"

	"jumboscan/internal/config"
	"jumboscan/internal/dto"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test_jwt_secret_32_chars_minimum!"

func newTestCfg() *config.Config {
	return &config.Config{JWTSecret: testSecret, JWTExpirationHours: 720}
}

func TestRegistrar_ThenLogin(t *testing.T) {
	repo := newStubUsuarioRepo()
	svc := NewAuthService(repo, newTestCfg())
	ctx := context.Background()

	require.NoError(t, svc.Registrar(ctx, dto.RegistroRequest{Nombre: "Ana", Email: "Ana@Tienda.cl", Password: "secreto"}))
	assert.Contains(t, repo.users, "ana@tienda.cl")
	assert.NotEqual(t, "secreto", repo.users["ana@tienda.cl"].PasswordHash)

	resp, err := svc.Login(ctx, dto.LoginRequest{Email: "ana@tienda.cl", Password: "secreto"})
	require.NoError(t, err)
	assert.Equal(t, "Login exitoso", resp.Mensaje)
	assert.Equal(t, dto.UsuarioResumen{Nombre: "Ana", Email: "ana@tienda.cl"}, resp.Usuario)

	claims := jwt.MapClaims{}
	_, err = jwt.ParseWithClaims(resp.Token, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(testSecret), nil
	})
	require.NoError(t, err)
	assert.Equal(t, "Ana", claims["nombre"])
	assert.Equal(t, "ana@tienda.cl", claims["email"])
	assert.EqualValues(t, 1, claims["id"])
}

func TestRegistrar_DuplicateEmail(t *testing.T) {
	svc := NewAuthService(newStubUsuarioRepo(), newTestCfg())
	ctx := context.Background()
	req := dto.RegistroRequest{Nombre: "Ana", Email: "ana@tienda.cl", Password: "secreto"}

	require.NoError(t, svc.Registrar(ctx, req))
	assert.ErrorIs(t, svc.Registrar(ctx, req), ErrEmailExiste)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	svc := NewAuthService(newStubUsuarioRepo(), newTestCfg())
	ctx := context.Background()
	require.NoError(t, svc.Registrar(ctx, dto.RegistroRequest{Nombre: "Ana", Email: "ana@tienda.cl", Password: "secreto"}))

	_, err := svc.Login(ctx, dto.LoginRequest{Email: "ana@tienda.cl", Password: "otra"})
	assert.ErrorIs(t, err, ErrCredencialesInvalidas)

	_, err = svc.Login(ctx, dto.LoginRequest{Email: "nadie@tienda.cl", Password: "secreto"})
	assert.ErrorIs(t, err, ErrCredencialesInvalidas)
}

func TestPerfil(t *testing.T) {
	repo := newStubUsuarioRepo()
	svc := NewAuthService(repo, newTestCfg())
	ctx := context.Background()
	require.NoError(t, svc.Registrar(ctx, dto.RegistroRequest{Nombre: "Ana", Email: "ana@tienda.cl", Password: "secreto"}))

	p, err := svc.Perfil(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "ana@tienda.cl", p.Email)

	_, err = svc.Perfil(ctx, 42)
	assert.ErrorIs(t, err, ErrUsuarioNoEncontrado)
}
