package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(0)
	}
	cmd := os.Args[1]
	args := os.Args[2:]
	switch cmd {
	case "version":
		fmt.Println("dialogue-platform cli 0.1.0")
	case "chat":
		runChat(args)
	case "clarify":
		runClarify(args)
	case "lang":
		runLang(args)
	case "detect":
		runDetect(args)
	case "languages":
		out, err := getLanguages()
		if err != nil {
			fail(err)
		}
		fmt.Println(prettyJSON(out))
	case "stats":
		out, err := getStats()
		if err != nil {
			fail(err)
		}
		fmt.Println(prettyJSON(out))
	case "clear":
		if len(args) < 1 {
			fmt.Fprintf(os.Stderr, "Usage: dialogue clear <conversation_id>\n")
			os.Exit(1)
		}
		if err := clearConversation(args[0]); err != nil {
			fail(err)
		}
		fmt.Println("cleared")
	default:
		printUsage()
		os.Exit(1)
	}
}

// runChat 交互式对话循环：澄清问题直接展示，其余打印路由结果
func runChat(args []string) {
	conversationID := os.Getenv("DIALOGUE_CONVERSATION_ID")
	if len(args) > 0 {
		conversationID = args[0]
	}
	if conversationID == "" {
		conversationID = uuid.NewString()
		fmt.Printf("会话: %s\n", conversationID)
	}
	userID := os.Getenv("DIALOGUE_USER_ID")

	reader := bufio.NewReader(os.Stdin)
	for {
		fmt.Print("> ")
		line, err := reader.ReadString('\n')
		if err != nil {
			break
		}
		msg := strings.TrimSpace(line)
		if msg == "" {
			continue
		}
		if msg == "exit" || msg == "quit" {
			break
		}
		res, err := postMessage(msg, conversationID, userID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "发送失败: %v\n", err)
			continue
		}
		if clar, ok := res["clarification"].(map[string]interface{}); ok {
			fmt.Printf("? %v\n", clar["question"])
			if suggested, ok := clar["suggested_responses"].([]interface{}); ok && len(suggested) > 0 {
				fmt.Printf("  建议: %v\n", suggested)
			}
			continue
		}
		fmt.Printf("intent: %v (confidence %v)\n", res["intent"], res["confidence"])
		if routing, ok := res["routing"].(map[string]interface{}); ok {
			fmt.Printf("agent:  %v\n", routing["target_agent"])
		}
		if entities, ok := res["entities"].(map[string]interface{}); ok && len(entities) > 0 {
			fmt.Printf("entities: %s\n", prettyJSON(entities))
		}
	}
}

func runClarify(args []string) {
	if len(args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: dialogue clarify <get|cancel> <conversation_id>\n")
		os.Exit(1)
	}
	switch args[0] {
	case "get":
		out, err := getClarification(args[1])
		if err != nil {
			fail(err)
		}
		fmt.Println(prettyJSON(out))
	case "cancel":
		if err := cancelClarification(args[1]); err != nil {
			fail(err)
		}
		fmt.Println("canceled")
	default:
		fmt.Fprintf(os.Stderr, "Usage: dialogue clarify <get|cancel> <conversation_id>\n")
		os.Exit(1)
	}
}

func runLang(args []string) {
	if len(args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: dialogue lang <get|set> <conversation_id> [language]\n")
		os.Exit(1)
	}
	switch args[0] {
	case "get":
		lang, err := getLanguage(args[1])
		if err != nil {
			fail(err)
		}
		fmt.Println(lang)
	case "set":
		if len(args) < 3 {
			fmt.Fprintf(os.Stderr, "Usage: dialogue lang set <conversation_id> <language>\n")
			os.Exit(1)
		}
		if err := setLanguage(args[1], args[2]); err != nil {
			fail(err)
		}
		fmt.Println("ok")
	default:
		fmt.Fprintf(os.Stderr, "Usage: dialogue lang <get|set> <conversation_id> [language]\n")
		os.Exit(1)
	}
}

func runDetect(args []string) {
	if len(args) < 1 {
		fmt.Fprintf(os.Stderr, "Usage: dialogue detect <text>\n")
		os.Exit(1)
	}
	out, err := detectLanguage(strings.Join(args, " "))
	if err != nil {
		fail(err)
	}
	fmt.Println(prettyJSON(out))
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "%v\n", err)
	os.Exit(1)
}

func printUsage() {
	fmt.Println(`dialogue - 对话平台命令行

Usage:
  dialogue chat [conversation_id]         交互式对话（默认新会话）
  dialogue clarify get <conversation_id>  查看在途澄清
  dialogue clarify cancel <conversation_id>
  dialogue lang get <conversation_id>     查看偏好语言
  dialogue lang set <conversation_id> <zh|en>
  dialogue detect <text>                  语言检测
  dialogue languages                      支持的语言列表
  dialogue stats                          运行时统计
  dialogue clear <conversation_id>        清除会话上下文
  dialogue version

环境变量:
  DIALOGUE_API_URL             API 地址（默认 http://localhost:8080）
  DIALOGUE_CONVERSATION_ID     chat 默认会话
  DIALOGUE_USER_ID             chat 用户标识`)
}
