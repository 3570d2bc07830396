package config

type AppConfig struct {
	Server ServerConfig
	Log    LogConfig
}

type ClientAppConfig struct {
	Client ClientConfig
	Log    LogConfig
}

func LoadApp() (AppConfig, error) {
	logCfg, err := LoadLog()
	if err != nil {
		return AppConfig{}, err
	}
	serverCfg, err := LoadServer()
	if err != nil {
		return AppConfig{}, err
	}
	return AppConfig{
		Server: serverCfg,
		Log:    logCfg,
	}, nil
}

func LoadClientApp() (ClientAppConfig, error) {
	logCfg, err := LoadLog()
	if err != nil {
		return ClientAppConfig{}, err
	}
	clientCfg, err := LoadClient()
	if err != nil {
		return ClientAppConfig{}, err
	}
	return ClientAppConfig{
		Client: clientCfg,
		Log:    logCfg,
	}, nil
}
