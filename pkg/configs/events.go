package configs

import "github.com/spf13/viper"

// EventsConfig 控制文件生命周期事件发布的开关（全局与分主题）.
type EventsConfig struct {
	Enabled bool             `mapstructure:"enabled"` // 总开关
	File    FileEventsConfig `mapstructure:"file"`
}

// FileEventsConfig 针对文件生命周期的事件开关.
type FileEventsConfig struct {
	Stored   bool `mapstructure:"stored"`   // 上传确认完成
	Trashed  bool `mapstructure:"trashed"`  // 移入回收站
	Restored bool `mapstructure:"restored"` // 从回收站恢复
	Purged   bool `mapstructure:"purged"`   // 永久删除（blob + 记录）
}

func (c *EventsConfig) setDefaults(v *viper.Viper) {
	// 总开关：默认启用事件系统
	v.SetDefault("events.enabled", true)

	// 默认开启最小必要集：下游只需要知道对象出现和消失
	v.SetDefault("events.file.stored", true)
	v.SetDefault("events.file.purged", true)

	// 回收站进出事件默认关闭，按需开启
	v.SetDefault("events.file.trashed", false)
	v.SetDefault("events.file.restored", false)
}
