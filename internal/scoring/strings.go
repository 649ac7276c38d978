// internal/scoring/strings.go
package scoring

import "jobless/internal/common/i18n"

// Dimension identifies one of the four core inputs.
type Dimension string

const (
	DimDataOpenness           Dimension = "dataOpenness"
	DimWorkDataDigitalization Dimension = "workDataDigitalization"
	DimProcessStandardization Dimension = "processStandardization"
	DimCurrentAIAdoption      Dimension = "currentAIAdoption"
)

var dimensionNames = map[Dimension]i18n.Text{
	DimDataOpenness:           {i18n.English: "Data Openness", i18n.Chinese: "数据开放度"},
	DimWorkDataDigitalization: {i18n.English: "Work Data Digitalization", i18n.Chinese: "工作数据数字化程度"},
	DimProcessStandardization: {i18n.English: "Process Standardization", i18n.Chinese: "流程标准化程度"},
	DimCurrentAIAdoption:      {i18n.English: "Current AI Adoption", i18n.Chinese: "当前AI应用程度"},
}

// DisplayName returns the localized name of d.
func (d Dimension) DisplayName(lang i18n.Lang) string {
	return dimensionNames[d].Get(lang)
}

type messageKey string

const (
	msgProtectCreative    messageKey = "protect.creative"
	msgProtectInteraction messageKey = "protect.interaction"
	msgProtectPhysical    messageKey = "protect.physical"
	msgProtectNone        messageKey = "protect.none"

	msgRecCollaborate   messageKey = "rec.collaborate"
	msgRecSupervise     messageKey = "rec.supervise"
	msgRecStrongProtect messageKey = "rec.strongProtection"
	msgRecOpenData      messageKey = "rec.openData"
	msgRecDigitalGap    messageKey = "rec.digitalGap"
	msgRecStandardized  messageKey = "rec.standardized"
	msgRecLowCreative   messageKey = "rec.lowCreative"
	msgRecKeepLearning  messageKey = "rec.keepLearning"
	msgRecBuildNetwork  messageKey = "rec.buildNetwork"
	msgRecTrackIndustry messageKey = "rec.trackIndustry"
)

var messages = map[messageKey]i18n.Text{
	msgProtectCreative: {
		i18n.English: "High creative requirements make your work harder to automate",
		i18n.Chinese: "较高的创造性要求让你的工作更难被自动化",
	},
	msgProtectInteraction: {
		i18n.English: "Frequent human interaction remains a strong barrier to AI replacement",
		i18n.Chinese: "频繁的人际互动仍是AI替代的重要壁垒",
	},
	msgProtectPhysical: {
		i18n.English: "Hands-on physical work slows down full automation",
		i18n.Chinese: "需要动手的体力操作会减缓完全自动化的进程",
	},
	msgProtectNone: {
		i18n.English: "Few protective factors detected; most of your tasks are exposed to automation",
		i18n.Chinese: "未发现明显的保护因素，你的大部分工作内容都面临自动化风险",
	},
	msgRecCollaborate: {
		i18n.English: "Learn to work alongside AI tools and position yourself as the person who directs them",
		i18n.Chinese: "学习与AI工具协作，成为驾驭AI的人",
	},
	msgRecSupervise: {
		i18n.English: "Move toward reviewing and quality-checking AI output rather than producing it by hand",
		i18n.Chinese: "逐步转向审核和把关AI产出，而不是手工完成同样的工作",
	},
	msgRecStrongProtect: {
		i18n.English: "Your role has strong human-only traits; keep investing in them",
		i18n.Chinese: "你的岗位具有较强的不可替代特质，请继续强化这些能力",
	},
	msgRecOpenData: {
		i18n.English: "Your work data is highly open; build expertise that is not written down anywhere",
		i18n.Chinese: "你的工作数据高度开放，建议积累难以被记录的隐性经验",
	},
	msgRecDigitalGap: {
		i18n.English: "Your work is already digital but AI adoption is low; expect a fast catch-up and prepare early",
		i18n.Chinese: "你的工作已高度数字化但AI应用尚低，追赶可能很快，请提前准备",
	},
	msgRecStandardized: {
		i18n.English: "Highly standardized processes are easy to automate; take on non-routine responsibilities",
		i18n.Chinese: "高度标准化的流程容易被自动化，尝试承担非常规的工作职责",
	},
	msgRecLowCreative: {
		i18n.English: "Add creative problem solving to your role to raise your protection",
		i18n.Chinese: "在工作中增加创造性解决问题的比重，以提升自身保护力",
	},
	msgRecKeepLearning: {
		i18n.English: "Keep learning: set aside regular time for new skills",
		i18n.Chinese: "保持学习，定期投入时间掌握新技能",
	},
	msgRecBuildNetwork: {
		i18n.English: "Build a professional network that can help you move between roles",
		i18n.Chinese: "建立能帮助你转换岗位的职业人脉",
	},
	msgRecTrackIndustry: {
		i18n.English: "Follow how AI is changing your industry and revisit this assessment regularly",
		i18n.Chinese: "关注AI对你所在行业的影响，并定期重新评估",
	},
}

func message(key messageKey, lang i18n.Lang) string {
	return messages[key].Get(lang)
}
