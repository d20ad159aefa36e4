package config

import "os"

type R2 struct {
	AccountID  string
	AccessKey  string
	SecretKey  string
	BucketName string
	PublicURL  string
}

type Config struct {
	TwitterClientID      string
	TwitterClientSecret  string
	TwitterRedirectURI   string
	FacebookClientID     string
	FacebookClientSecret string
	FacebookRedirectURI  string
	InstagramRedirectURI string
	ThreadsClientID      string
	ThreadsClientSecret  string
	ThreadsRedirectURI   string
	GoogleClientID       string
	GoogleClientSecret   string
	GoogleRedirectURI    string
	OpenAIKey            string
	NewsAPIKey           string
	PostgresURI          string
	RedisURI             string
	FrontendURL          string
	R2                   R2
	SecretKey            string
	CookieName           string
	Environment          string
}

func LoadConfig() *Config {
	return &Config{
		TwitterClientID:      getEnv("TWITTER_CLIENT_ID", ""),
		TwitterClientSecret:  getEnv("TWITTER_CLIENT_SECRET", ""),
		TwitterRedirectURI:   getEnv("TWITTER_REDIRECT_URI", ""),
		FacebookClientID:     getEnv("FACEBOOK_CLIENT_ID", ""),
		FacebookClientSecret: getEnv("FACEBOOK_CLIENT_SECRET", ""),
		FacebookRedirectURI:  getEnv("FACEBOOK_REDIRECT_URI", ""),
		InstagramRedirectURI: getEnv("INSTAGRAM_REDIRECT_URI", ""),
		ThreadsClientID:      getEnv("THREADS_CLIENT_ID", ""),
		ThreadsClientSecret:  getEnv("THREADS_CLIENT_SECRET", ""),
		ThreadsRedirectURI:   getEnv("THREADS_REDIRECT_URI", ""),
		GoogleClientID:       getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret:   getEnv("GOOGLE_CLIENT_SECRET", ""),
		GoogleRedirectURI:    getEnv("GOOGLE_REDIRECT_URI", ""),
		OpenAIKey:            getEnv("OPENAI_API_KEY", ""),
		NewsAPIKey:           getEnv("NEWSAPI_KEY", ""),
		PostgresURI:          getEnv("POSTGRES_URI", ""),
		RedisURI:             getEnv("REDIS_URI", ""),
		FrontendURL:          getEnv("FRONTEND_URL", "http://localhost:5173"),
		R2: R2{
			AccountID:  getEnv("R2_ACCOUNT_ID", ""),
			AccessKey:  getEnv("R2_ACCESS_KEY", ""),
			SecretKey:  getEnv("R2_SECRET_KEY", ""),
			BucketName: getEnv("R2_BUCKET_NAME", ""),
			PublicURL:  getEnv("R2_PUBLIC_URL", ""),
		},
		SecretKey:   getEnv("SECRET_KEY", ""),
		CookieName:  getEnv("COOKIE_NAME", "contentflow_session"),
		Environment: getEnv("ENVIRONMENT", "development"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
