package snowflake

import (
	"sync"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/zap"
)

var (
	node     *snowflake.Node
	nodeOnce sync.Once
	// 默认机器 ID，Init 未被显式调用时使用
	defaultMachineID int64 = 1
)

// Init 初始化雪花算法节点
// 应在程序启动时调用一次，machineID 范围 0-1023，分布式部署时每台机器需唯一
func Init(machineID int64) {
	nodeOnce.Do(func() {
		if machineID < 0 || machineID > 1023 {
			machineID = defaultMachineID
			zap.L().Warn("Invalid MachineID in config, using default value 1")
		}
		var err error
		node, err = snowflake.NewNode(machineID)
		if err != nil {
			zap.L().Fatal("Failed to initialize snowflake node", zap.Error(err))
		}
		zap.L().Info("Snowflake node initialized", zap.Int64("machineID", machineID))
	})
}

// GenerateID 生成雪花 ID (int64)
func GenerateID() int64 {
	if node == nil {
		Init(defaultMachineID)
	}
	return node.Generate().Int64()
}

// GenerateIDString 生成雪花 ID (string)
// 用于 JSON 序列化，避免 JavaScript 精度丢失
func GenerateIDString() string {
	if node == nil {
		Init(defaultMachineID)
	}
	return node.Generate().String()
}
