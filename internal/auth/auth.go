package auth

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/ahmedha-data-analyst/water-blend-optimizer/internal/repo"
)

type contextKey string

const (
	operatorIDKey contextKey = "operatorID"
	loginKey      contextKey = "operatorLogin"
)

const sessionCookie = "session_token"

type Authenv struct {
	JWTkey []byte
	Repo   repo.Repository
	Log    zerolog.Logger
}

type Loginrequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

type Registerrequest struct {
	Login        string `json:"login"`
	Password     string `json:"password"`
	Email        string `json:"email"`
	Organisation string `json:"organisation"`
}

// WithOperator returns a context carrying the authenticated operator identity.
func WithOperator(ctx context.Context, id int, login string) context.Context {
	ctx = context.WithValue(ctx, operatorIDKey, id)
	return context.WithValue(ctx, loginKey, login)
}

// OperatorID pulls the authenticated operator id out of a request context.
func OperatorID(ctx context.Context) (int, bool) {
	id, ok := ctx.Value(operatorIDKey).(int)
	return id, ok
}

// Login pulls the authenticated login out of a request context.
func Login(ctx context.Context) (string, bool) {
	login, ok := ctx.Value(loginKey).(string)
	return login, ok
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

func (env *Authenv) isValidToken(tokenString string) bool {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		// verify signing method and return key
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return env.JWTkey, nil
	})

	if err != nil {
		env.Log.Warn().Err(err).Msg("Ошибка парсинга токена")
		return false
	}

	return token.Valid
}

// operatorFromCookie validates the session cookie and extracts the operator
// identity from its claims.
func (env *Authenv) operatorFromCookie(r *http.Request) (int, string, bool) {
	cookie, err := r.Cookie(sessionCookie)
	if err != nil {
		return 0, "", false
	}

	token, err := jwt.Parse(cookie.Value, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return env.JWTkey, nil
	})
	if err != nil || !token.Valid {
		return 0, "", false
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, "", false
	}
	idValue, ok := claims["operator_id"].(float64)
	if !ok {
		return 0, "", false
	}
	login, ok := claims["login"].(string)
	if !ok || login == "" {
		return 0, "", false
	}
	return int(idValue), login, true
}

func (env *Authenv) RedirectIfLoggedIn(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(sessionCookie)
		if err == nil && env.isValidToken(cookie.Value) {
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// AuthMiddleware guards the JSON API: requests without a valid session get a
// plain 401, the frontend and CLI handle it themselves.
func (env *Authenv) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, login, ok := env.operatorFromCookie(r)
		if !ok {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		// Кладем в контекст оба значения
		next.ServeHTTP(w, r.WithContext(WithOperator(r.Context(), id, login)))
	})
}

// PageAuthMiddleware guards static operator pages: browsers get sent to the
// login page instead of a bare 401.
func (env *Authenv) PageAuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, login, ok := env.operatorFromCookie(r)
		if !ok {
			http.Redirect(w, r, "/auth/", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithOperator(r.Context(), id, login)))
	})
}

// PremiumMiddleware sits behind AuthMiddleware and lets only operators with an
// active premium subscription through. An expired subscription is cleared on
// the spot, same as the profile view does.
func (env *Authenv) PremiumMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := OperatorID(r.Context())
		if !ok || id == 0 {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		prof, err := env.Repo.GetProfileByID(r.Context(), id)
		if err != nil {
			env.Log.Error().Err(err).Int("operator_id", id).Msg("premium check failed")
			http.Error(w, "DB error", http.StatusInternalServerError)
			return
		}
		if prof.PremiumUntil != nil && time.Now().After(*prof.PremiumUntil) {
			_ = env.Repo.ClearPremium(r.Context(), id)
			prof.IsPremium = false
		}
		if !prof.IsPremium {
			http.Error(w, "Premium subscription required", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (env *Authenv) addCookie(w http.ResponseWriter, operatorID int, login string) {
	// Create JWT cookie
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"operator_id": operatorID,
		"login":       login,
		"exp":         time.Now().Add(30 * 24 * time.Hour).Unix(), // Токен на месяц
	})
	tokenString, err := token.SignedString(env.JWTkey)
	if err != nil {
		env.Log.Error().Err(err).Msg("Ошибка создания токена")
		return
	}
	expiration := time.Now().Add(30 * 24 * time.Hour)
	cookie := http.Cookie{
		Name:     sessionCookie,
		Value:    tokenString,
		Expires:  expiration,
		Path:     "/",
		HttpOnly: true, // Важно! JS не сможет украсть эту куку
		Secure:   true, // Работает только через HTTPS
		SameSite: http.SameSiteLaxMode,
	}
	http.SetCookie(w, &cookie)
}

func InitDB(log zerolog.Logger) *sql.DB {
	connStr := os.Getenv("DATABASE_URL")
	if connStr == "" {
		connStr = "user=postgres dbname=postgres password=password sslmode=disable"
	}
	if !strings.Contains(connStr, "sslmode=") {
		if strings.HasPrefix(connStr, "postgres://") || strings.HasPrefix(connStr, "postgresql://") {
			connStr = connStr + "?sslmode=require"
		} else {
			connStr = connStr + " sslmode=require"
		}
	}
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		log.Fatal().Err(err).Msg("Ошибка конфигурации БД")
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err = db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("База не отвечает")
	}
	return db
}

func (env *Authenv) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	var req Registerrequest
	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	req.Login = strings.TrimSpace(req.Login)
	req.Email = strings.TrimSpace(req.Email)
	req.Organisation = strings.TrimSpace(req.Organisation)
	if req.Login == "" || req.Email == "" || req.Password == "" {
		http.Error(w, "Login, email and password required", http.StatusBadRequest)
		return
	}
	if len(req.Password) < 6 {
		http.Error(w, "Password too короткий", http.StatusBadRequest)
		return
	}

	hashedPassword, err := HashPassword(req.Password)
	if err != nil {
		http.Error(w, "Error hashing password", http.StatusInternalServerError)
		return
	}
	id, err := env.Repo.CreateOperator(r.Context(), req.Login, req.Email, req.Organisation, hashedPassword)
	if err != nil {
		env.Log.Error().Err(err).Str("login", req.Login).Msg("CreateOperator error")
		http.Error(w, "Operator already exists or DB error", http.StatusConflict)
		return
	}

	env.addCookie(w, id, req.Login)
	// Явно говорим, что ресурс создан
	w.WriteHeader(http.StatusCreated)
	w.Write([]byte("Registration successful"))
}

func (env *Authenv) AuthHandler(w http.ResponseWriter, r *http.Request) {
	var req Loginrequest
	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	req.Login = strings.TrimSpace(req.Login)
	if req.Login == "" || req.Password == "" {
		http.Error(w, "Login and password required", http.StatusBadRequest)
		return
	}

	id, storedHash, err := env.Repo.GetByLogin(r.Context(), req.Login)
	if err != nil {
		env.Log.Error().Err(err).Str("login", req.Login).Msg("GetByLogin error")
		http.Error(w, "DB error", http.StatusInternalServerError)
		return
	}
	// Неизвестный логин оставляет пустой хеш, bcrypt его не примет.
	err = bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(req.Password))
	if err != nil {
		http.Error(w, "Invalid login or password", http.StatusUnauthorized)
		return
	}
	env.addCookie(w, id, req.Login)
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("Authentication successful"))
}
