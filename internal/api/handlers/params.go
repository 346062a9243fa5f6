package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
)

// localDateTimeFormat формат без зоны, который присылают старые клиенты; трактуется как UTC
const localDateTimeFormat = "2006-01-02T15:04:05"

// ParseTime разбирает RFC 3339 или локальное время без зоны
func ParseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err == nil {
		return t, nil
	}
	return time.ParseInLocation(localDateTimeFormat, s, time.UTC)
}

// PathInt64 достает положительный int64 из переменной маршрута
func PathInt64(r *http.Request, name string) (int64, bool) {
	v, err := strconv.ParseInt(mux.Vars(r)[name], 10, 64)
	if err != nil || v <= 0 {
		return 0, false
	}
	return v, true
}

// QueryInt читает целый query параметр, def если параметр не задан
func QueryInt(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
}
